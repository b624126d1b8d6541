package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/model"
)

// CartRepository provides active-cart storage.
type CartRepository interface {
	// AddOrIncrement creates a quantity-1 line for (userID, productID) or
	// increments the existing one, atomically, and returns the result.
	AddOrIncrement(ctx context.Context, userID, productID uuid.UUID) (*model.CartLine, error)
	// Get loads a single cart line by ID.
	Get(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error)
	// Delete removes a single cart line.
	Delete(ctx context.Context, lineID uuid.UUID) error
	// ListWithProducts returns the user's cart lines joined with their
	// product snapshots in one consistent read.
	ListWithProducts(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
}
