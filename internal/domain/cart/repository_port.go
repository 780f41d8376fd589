// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for carts and their lines.
//
// Line read-modify-write contract: callers run GetLineForUpdate, UpsertLine
// and DeleteLine inside one transaction; the implementation takes a row lock
// on the line so concurrent mutations for the same customer serialize. The
// unique (cart, product) constraint is the correctness backstop.
type Repository interface {
	// GetByCustomerID returns ErrNotFound when the customer has no cart yet.
	GetByCustomerID(ctx context.Context, customerID string) (Cart, error)

	// Create persists an empty cart. A concurrent create for the same
	// customer returns ErrConflict; callers re-read.
	Create(ctx context.Context, c Cart) (Cart, error)

	// GetLineForUpdate returns the line, locked for the duration of the
	// surrounding transaction. ErrLineNotFound when absent.
	GetLineForUpdate(ctx context.Context, cartID, productID string) (Line, error)

	// UpsertLine inserts or replaces the (cart, product) line.
	UpsertLine(ctx context.Context, l Line) error

	// DeleteLine removes the line; deleting an absent line is a no-op.
	DeleteLine(ctx context.Context, cartID, productID string) error

	// Lines returns all lines of the cart.
	Lines(ctx context.Context, cartID string) ([]Line, error)

	// ClearLines deletes every line; the cart row itself persists.
	ClearLines(ctx context.Context, cartID string) error
}
