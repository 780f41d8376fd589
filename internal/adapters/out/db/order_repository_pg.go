// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "digitalstore/internal/adapters/out/db/common"
	orderdom "digitalstore/internal/domain/order"
)

// PostgreSQL implementation of order.Repository.
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	var o orderdom.Order
	err := run.QueryRowContext(ctx, `
SELECT id, customer_id, status, order_date
FROM orders
WHERE id = $1`, strings.TrimSpace(id)).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.OrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	lines, err := r.lines(ctx, o.ID)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.Lines = lines
	return o, nil
}

func (r *OrderRepositoryPG) ListByCustomerID(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT id, customer_id, status, order_date
FROM orders
WHERE customer_id = $1
ORDER BY order_date DESC, id DESC`, strings.TrimSpace(customerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.Order
	for rows.Next() {
		var o orderdom.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lines, err := r.lines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

// Create writes the order row and its lines. Expected to run inside the
// checkout transaction so a partial write never becomes visible.
func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO orders (id, customer_id, status, order_date)
VALUES ($1, $2, $3, $4)`, o.ID, o.CustomerID, o.Status, o.OrderDate)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return orderdom.Order{}, orderdom.ErrConflict
		}
		return orderdom.Order{}, err
	}
	for _, l := range o.Lines {
		_, err := run.ExecContext(ctx, `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)`, o.ID, l.ProductID, l.Quantity, l.UnitPrice)
		if err != nil {
			return orderdom.Order{}, err
		}
	}
	return o, nil
}

func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id string, status orderdom.Status) (orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `
UPDATE orders SET status = $1 WHERE id = $2`, status, strings.TrimSpace(id))
	if err != nil {
		return orderdom.Order{}, err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepositoryPG) lines(ctx context.Context, orderID string) ([]orderdom.Line, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT product_id, quantity, unit_price
FROM order_lines
WHERE order_id = $1
ORDER BY product_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.Line
	for rows.Next() {
		var l orderdom.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
