package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/repository"
)

type productView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductView(p *model.Product) productView {
	return productView{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Image:       p.Image,
		LargeImage:  p.LargeImage,
		CreatedAt:   p.CreatedAt,
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	ps, err := s.products.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]productView, 0, len(ps))
	for i := range ps {
		out = append(out, toProductView(&ps[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents"`
		Image       string `json:"image"`
		LargeImage  string `json:"large_image"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.products.Create(r.Context(), actor, model.Product{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductView(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		PriceCents  *int64  `json:"price_cents"`
		Image       *string `json:"image"`
		LargeImage  *string `json:"large_image"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.products.Update(r.Context(), actor, id, repository.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	p, err := s.products.Delete(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}
