// internal/adapters/out/db/cart_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "digitalstore/internal/adapters/out/db/common"
	cartdom "digitalstore/internal/domain/cart"
	productdom "digitalstore/internal/domain/product"
)

// PostgreSQL implementation of cart.Repository.
type CartRepositoryPG struct {
	DB *sql.DB
}

func NewCartRepositoryPG(db *sql.DB) *CartRepositoryPG {
	return &CartRepositoryPG{DB: db}
}

func (r *CartRepositoryPG) GetByCustomerID(ctx context.Context, customerID string) (cartdom.Cart, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	var c cartdom.Cart
	err := run.QueryRowContext(ctx, `
SELECT id, customer_id, created_at
FROM carts
WHERE customer_id = $1`, strings.TrimSpace(customerID)).
		Scan(&c.ID, &c.CustomerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cartdom.Cart{}, cartdom.ErrNotFound
		}
		return cartdom.Cart{}, err
	}
	return c, nil
}

func (r *CartRepositoryPG) Create(ctx context.Context, c cartdom.Cart) (cartdom.Cart, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO carts (id, customer_id, created_at)
VALUES ($1, $2, $3)`, c.ID, c.CustomerID, c.CreatedAt)
	if err != nil {
		// The unique customer constraint makes concurrent first-touch
		// creation safe: the loser re-reads.
		if dbcommon.IsUniqueViolation(err) {
			return cartdom.Cart{}, cartdom.ErrConflict
		}
		return cartdom.Cart{}, err
	}
	return c, nil
}

// GetLineForUpdate takes a row lock on the line. Only meaningful inside a
// transaction; on the bare pool the lock is released immediately.
func (r *CartRepositoryPG) GetLineForUpdate(ctx context.Context, cartID, productID string) (cartdom.Line, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	var l cartdom.Line
	err := run.QueryRowContext(ctx, `
SELECT cart_id, product_id, quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE`, strings.TrimSpace(cartID), strings.TrimSpace(productID)).
		Scan(&l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cartdom.Line{}, cartdom.ErrLineNotFound
		}
		return cartdom.Line{}, err
	}
	return l, nil
}

func (r *CartRepositoryPG) UpsertLine(ctx context.Context, l cartdom.Line) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		l.CartID, l.ProductID, l.Quantity)
	if err != nil && dbcommon.IsForeignKeyViolation(err) {
		return productdom.ErrNotFound
	}
	return err
}

func (r *CartRepositoryPG) DeleteLine(ctx context.Context, cartID, productID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2`, strings.TrimSpace(cartID), strings.TrimSpace(productID))
	return err
}

func (r *CartRepositoryPG) Lines(ctx context.Context, cartID string) ([]cartdom.Line, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT cart_id, product_id, quantity
FROM cart_lines
WHERE cart_id = $1
ORDER BY product_id`, strings.TrimSpace(cartID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cartdom.Line
	for rows.Next() {
		var l cartdom.Line
		if err := rows.Scan(&l.CartID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *CartRepositoryPG) ClearLines(ctx context.Context, cartID string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, strings.TrimSpace(cartID))
	return err
}
