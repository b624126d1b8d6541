package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/repository"
)

// ProductRepo implements ProductRepository using PostgreSQL.
type ProductRepo struct{ db *DB }

// NewProductRepo constructs a product repository.
func NewProductRepo(db *DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, title, description, price_cents, image, large_image, created_at, updated_at`

// Create inserts a new product row.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const q = `
INSERT INTO products (id, title, description, price_cents, image, large_image)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.Title, p.Description, p.PriceCents, p.Image, p.LargeImage)
	return err
}

// Get selects a product by ID.
func (r *ProductRepo) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.db.Pool.QueryRow(ctx, q, id))
}

// List returns products ordered newest first.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields and returns the updated row.
func (r *ProductRepo) Update(ctx context.Context, id uuid.UUID, upd repository.ProductUpdate) (*model.Product, error) {
	const q = `
UPDATE products
SET title       = COALESCE($2, title),
    description = COALESCE($3, description),
    price_cents = COALESCE($4, price_cents),
    image       = COALESCE($5, image),
    large_image = COALESCE($6, large_image),
    updated_at  = now()
WHERE id=$1
RETURNING ` + productColumns
	return scanProduct(r.db.Pool.QueryRow(ctx, q, id, upd.Title, upd.Description, upd.PriceCents, upd.Image, upd.LargeImage))
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM products WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Image, &p.LargeImage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
