// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for orders. Orders and their lines are
// written once, at checkout, inside the checkout transaction; afterwards only
// the status column changes.
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)

	// ListByCustomerID returns the customer's orders, newest first.
	ListByCustomerID(ctx context.Context, customerID string) ([]Order, error)

	// Create persists the order together with all its lines.
	Create(ctx context.Context, o Order) (Order, error)

	// UpdateStatus transitions the order status. ErrNotFound when absent.
	UpdateStatus(ctx context.Context, id string, status Status) (Order, error)
}
