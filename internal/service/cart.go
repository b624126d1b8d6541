package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/repository"
)

// CartService defines active-cart operations.
type CartService interface {
	// Add puts one unit of a product into the caller's cart, incrementing
	// the existing line if present.
	Add(ctx context.Context, user *model.User, productID uuid.UUID) (*model.CartLine, error)
	// Remove deletes the caller's own cart line and returns its last value.
	Remove(ctx context.Context, user *model.User, lineID uuid.UUID) (*model.CartLine, error)
	// List returns the caller's cart lines with product details.
	List(ctx context.Context, user *model.User) ([]model.CartItem, error)
}

type CartServiceImpl struct {
	carts repository.CartRepository
}

// NewCartService constructs CartService.
func NewCartService(carts repository.CartRepository) *CartServiceImpl {
	return &CartServiceImpl{carts: carts}
}

// Add requires an authenticated caller. At most one line per (user, product)
// exists: a repeated add increments quantity instead of creating a duplicate.
func (s *CartServiceImpl) Add(ctx context.Context, user *model.User, productID uuid.UUID) (*model.CartLine, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("empty product id: %w", errs.ErrValidation)
	}
	return s.carts.AddOrIncrement(ctx, user.ID, productID)
}

// Remove deletes a line only when it belongs to the caller. The ownership
// check runs before deletion so a foreign line is never touched.
func (s *CartServiceImpl) Remove(ctx context.Context, user *model.User, lineID uuid.UUID) (*model.CartLine, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	ln, err := s.carts.Get(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if ln.UserID != user.ID {
		return nil, fmt.Errorf("not your cart line: %w", errs.ErrForbidden)
	}
	if err := s.carts.Delete(ctx, lineID); err != nil {
		return nil, err
	}
	return ln, nil
}

// List returns the caller's cart with product snapshots.
func (s *CartServiceImpl) List(ctx context.Context, user *model.User) ([]model.CartItem, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	return s.carts.ListWithProducts(ctx, user.ID)
}
