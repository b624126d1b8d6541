package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

// OrderRepo implements OrderRepository using PostgreSQL.
type OrderRepo struct{ db *DB }

// NewOrderRepo constructs an order repository.
func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateAndClearCart persists the order, its lines, and deletes exactly the
// snapshot cart-line IDs in one transaction. Cart lines added after the
// snapshot was taken survive.
func (r *OrderRepo) CreateAndClearCart(
	ctx context.Context, o *model.Order, cartLineIDs []uuid.UUID,
) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const insOrder = `
INSERT INTO orders (id, user_id, total_cents, charge_id)
VALUES ($1, $2, $3, $4)`
	if _, err = tx.Exec(ctx, insOrder, o.ID, o.UserID, o.TotalCents, o.ChargeID); err != nil {
		return err
	}

	const insLine = `
INSERT INTO order_lines (id, order_id, title, description, price_cents, quantity, image)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, ln := range o.Lines {
		if _, err = tx.Exec(ctx, insLine, ln.ID, ln.OrderID, ln.Title, ln.Description, ln.PriceCents, ln.Quantity, ln.Image); err != nil {
			return err
		}
	}

	const clear = `DELETE FROM cart_lines WHERE id = ANY($1)`
	if _, err = tx.Exec(ctx, clear, cartLineIDs); err != nil {
		return err
	}
	return nil
}

// Get selects an order and its lines.
func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const q = `SELECT id, user_id, total_cents, charge_id, created_at FROM orders WHERE id=$1`
	var o model.Order
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&o.ID, &o.UserID, &o.TotalCents, &o.ChargeID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	const ql = `
SELECT id, order_id, title, description, price_cents, quantity, image
FROM order_lines WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, ql, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ln model.OrderLine
		if err := rows.Scan(&ln.ID, &ln.OrderID, &ln.Title, &ln.Description, &ln.PriceCents, &ln.Quantity, &ln.Image); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser returns the user's orders without lines, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	const q = `
SELECT id, user_id, total_cents, charge_id, created_at
FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.ChargeID, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
