package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

// CartRepo implements CartRepository using PostgreSQL.
type CartRepo struct{ db *DB }

// NewCartRepo constructs a cart repository.
func NewCartRepo(db *DB) *CartRepo { return &CartRepo{db: db} }

// AddOrIncrement upserts the (user, product) line. The unique index on
// (user_id, product_id) makes increment-or-create a single atomic statement.
func (r *CartRepo) AddOrIncrement(ctx context.Context, userID, productID uuid.UUID) (*model.CartLine, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO cart_lines (id, user_id, product_id, quantity)
VALUES ($1, $2, $3, 1)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_lines.quantity + 1
RETURNING id, user_id, product_id, quantity`
	var ln model.CartLine
	err = r.db.Pool.QueryRow(ctx, q, id, userID, productID).
		Scan(&ln.ID, &ln.UserID, &ln.ProductID, &ln.Quantity)
	if isForeignKeyViolation(err) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ln, nil
}

// Get selects a single cart line.
func (r *CartRepo) Get(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error) {
	const q = `SELECT id, user_id, product_id, quantity FROM cart_lines WHERE id=$1`
	var ln model.CartLine
	err := r.db.Pool.QueryRow(ctx, q, lineID).
		Scan(&ln.ID, &ln.UserID, &ln.ProductID, &ln.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &ln, nil
}

// Delete removes a single cart line.
func (r *CartRepo) Delete(ctx context.Context, lineID uuid.UUID) error {
	const q = `DELETE FROM cart_lines WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListWithProducts joins the user's cart lines with product rows in one read.
func (r *CartRepo) ListWithProducts(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	const q = `
SELECT c.id, c.user_id, c.product_id, c.quantity,
       p.id, p.title, p.description, p.price_cents, p.image, p.large_image, p.created_at, p.updated_at
FROM cart_lines c
JOIN products p ON p.id = c.product_id
WHERE c.user_id=$1
ORDER BY c.id`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(
			&it.Line.ID, &it.Line.UserID, &it.Line.ProductID, &it.Line.Quantity,
			&it.Product.ID, &it.Product.Title, &it.Product.Description, &it.Product.PriceCents,
			&it.Product.Image, &it.Product.LargeImage, &it.Product.CreatedAt, &it.Product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
