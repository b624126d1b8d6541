package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/model"
)

// OrderRepository provides order storage.
type OrderRepository interface {
	// CreateAndClearCart persists the order with its lines and deletes
	// exactly the given cart-line IDs, all in one transaction.
	CreateAndClearCart(ctx context.Context, o *model.Order, cartLineIDs []uuid.UUID) error
	// Get loads an order with its lines.
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// ListByUser returns the user's orders, newest first, without lines.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}
