package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/model"
)

// ProductUpdate carries the mutable product fields for an update.
// Nil pointers mean "leave unchanged".
type ProductUpdate struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Image       *string
	LargeImage  *string
}

// ProductRepository provides catalog storage.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error
	// Get loads a product by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// List returns products ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	// Update applies the non-nil fields of upd.
	Update(ctx context.Context, id uuid.UUID, upd ProductUpdate) (*model.Product, error)
	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}
