package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/permission"
	"github.com/nstepa/storefront/internal/repository"
)

// OrderService defines read access to completed orders.
type OrderService interface {
	// Get returns one order to its owner or to an ADMIN.
	Get(ctx context.Context, user *model.User, orderID uuid.UUID) (*model.Order, error)
	// ListMine returns the caller's own orders.
	ListMine(ctx context.Context, user *model.User) ([]model.Order, error)
}

type OrderServiceImpl struct {
	orders repository.OrderRepository
}

// NewOrderService constructs OrderService.
func NewOrderService(orders repository.OrderRepository) *OrderServiceImpl {
	return &OrderServiceImpl{orders: orders}
}

// Get loads an order. Access is ownership ORed with the ADMIN capability;
// here the capability check is informational, not a gate by itself.
func (s *OrderServiceImpl) Get(ctx context.Context, user *model.User, orderID uuid.UUID) (*model.Order, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	owns := o.UserID == user.ID
	canSee := permission.Has(user.Capabilities, model.CapAdmin)
	if !owns && !canSee {
		return nil, fmt.Errorf("not your order: %w", errs.ErrForbidden)
	}
	return o, nil
}

// ListMine returns the caller's orders.
func (s *OrderServiceImpl) ListMine(ctx context.Context, user *model.User) ([]model.Order, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	return s.orders.ListByUser(ctx, user.ID)
}
