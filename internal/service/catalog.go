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

const defaultPageSize = 20

// ProductService defines catalog operations. Reads are public; writes are
// capability-gated.
type ProductService interface {
	Create(ctx context.Context, actor *model.User, p model.Product) (*model.Product, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, upd repository.ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
}

type ProductServiceImpl struct {
	products repository.ProductRepository
}

// NewProductService constructs ProductService.
func NewProductService(products repository.ProductRepository) *ProductServiceImpl {
	return &ProductServiceImpl{products: products}
}

// Create adds a catalog entry. Price must be positive: it is the amount
// checkout will charge.
func (s *ProductServiceImpl) Create(ctx context.Context, actor *model.User, p model.Product) (*model.Product, error) {
	if err := permission.Require(actor, model.CapItemCreate, model.CapAdmin); err != nil {
		return nil, err
	}
	if p.Title == "" {
		return nil, fmt.Errorf("empty title: %w", errs.ErrValidation)
	}
	if p.PriceCents <= 0 {
		return nil, fmt.Errorf("non-positive price: %w", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial edit to a catalog entry.
func (s *ProductServiceImpl) Update(ctx context.Context, actor *model.User, id uuid.UUID, upd repository.ProductUpdate) (*model.Product, error) {
	if err := permission.Require(actor, model.CapItemUpdate, model.CapAdmin); err != nil {
		return nil, err
	}
	if upd.PriceCents != nil && *upd.PriceCents <= 0 {
		return nil, fmt.Errorf("non-positive price: %w", errs.ErrValidation)
	}
	return s.products.Update(ctx, id, upd)
}

// Delete removes a catalog entry and returns its last value.
func (s *ProductServiceImpl) Delete(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Product, error) {
	if err := permission.Require(actor, model.CapItemDelete, model.CapAdmin); err != nil {
		return nil, err
	}
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// Get loads one product.
func (s *ProductServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.Get(ctx, id)
}

// List pages through the catalog, newest first.
func (s *ProductServiceImpl) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.List(ctx, limit, offset)
}
