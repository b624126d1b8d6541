package httpapi

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

type cartLineView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func toCartLineView(ln *model.CartLine) cartLineView {
	return cartLineView{ID: ln.ID.String(), ProductID: ln.ProductID.String(), Quantity: ln.Quantity}
}

type cartItemView struct {
	cartLineView
	Product productView `json:"product"`
}

type orderLineView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int32  `json:"quantity"`
	Image       string `json:"image,omitempty"`
}

type orderView struct {
	ID         string          `json:"id"`
	TotalCents int64           `json:"total_cents"`
	ChargeID   string          `json:"charge_id"`
	Lines      []orderLineView `json:"lines,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toOrderView(o *model.Order) orderView {
	v := orderView{
		ID:         o.ID.String(),
		TotalCents: o.TotalCents,
		ChargeID:   o.ChargeID,
		CreatedAt:  o.CreatedAt,
	}
	for _, ln := range o.Lines {
		v.Lines = append(v.Lines, orderLineView{
			ID:          ln.ID.String(),
			Title:       ln.Title,
			Description: ln.Description,
			PriceCents:  ln.PriceCents,
			Quantity:    ln.Quantity,
			Image:       ln.Image,
		})
	}
	return v
}

func (s *Server) handleListCart(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.carts.List(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]cartItemView, 0, len(items))
	for i := range items {
		out = append(out, cartItemView{
			cartLineView: toCartLineView(&items[i].Line),
			Product:      toProductView(&items[i].Product),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	pid, err := uuid.FromString(req.ProductID)
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	ln, err := s.carts.Add(r.Context(), u, pid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartLineView(ln))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	ln, err := s.carts.Remove(r.Context(), u, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartLineView(ln))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		PaymentToken string `json:"payment_token"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	o, err := s.checkout.Checkout(r.Context(), u, req.PaymentToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	o, err := s.orders.Get(r.Context(), u, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	os, err := s.orders.ListMine(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]orderView, 0, len(os))
	for i := range os {
		out = append(out, toOrderView(&os[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
