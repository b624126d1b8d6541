// Package httpapi exposes the storefront JSON API over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nstepa/storefront/internal/credentials"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/repository"
	"github.com/nstepa/storefront/internal/service"
)

// Server is the driving HTTP adapter that routes requests to application
// services. It holds no business logic beyond identity resolution.
type Server struct {
	auth     service.AuthService
	products service.ProductService
	carts    service.CartService
	checkout service.CheckoutService
	orders   service.OrderService
	creds    *credentials.Service
	users    repository.UserRepository
	log      *zap.Logger
}

// New constructs a Server wired to the given application services.
func New(
	auth service.AuthService,
	products service.ProductService,
	carts service.CartService,
	checkout service.CheckoutService,
	orders service.OrderService,
	creds *credentials.Service,
	users repository.UserRepository,
	log *zap.Logger,
) *Server {
	return &Server{
		auth:     auth,
		products: products,
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		creds:    creds,
		users:    users,
		log:      log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /signin", s.handleSignin)
	mux.HandleFunc("POST /signout", s.handleSignout)
	mux.HandleFunc("GET /me", s.handleMe)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("POST /users/{id}/capabilities", s.handleUpdateCapabilities)
	mux.HandleFunc("POST /password/request-reset", s.handleRequestReset)
	mux.HandleFunc("POST /password/reset", s.handleResetPassword)

	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.HandleFunc("POST /products", s.handleCreateProduct)
	mux.HandleFunc("GET /products/{id}", s.handleGetProduct)
	mux.HandleFunc("PATCH /products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /cart", s.handleListCart)
	mux.HandleFunc("POST /cart", s.handleAddToCart)
	mux.HandleFunc("DELETE /cart/{id}", s.handleRemoveFromCart)
	mux.HandleFunc("POST /checkout", s.handleCheckout)
	mux.HandleFunc("GET /orders", s.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", s.handleGetOrder)

	var h http.Handler = mux
	h = s.withIdentity(h)
	h = withLogging(s.log, h)
	h = withRecover(s.log, h)
	return h
}

// currentUser resolves the acting user, or nil for anonymous requests.
func (s *Server) currentUser(ctx context.Context) (*model.User, error) {
	p, ok := PrincipalFromCtx(ctx)
	if !ok {
		return nil, nil
	}
	return p.User(ctx)
}
