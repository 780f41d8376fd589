// internal/domain/category/repository_port.go
package category

import "context"

// Repository is the persistence port for categories.
type Repository interface {
	// List returns categories ordered lexicographically by name. A non-empty
	// nameQuery filters by case-insensitive substring match.
	List(ctx context.Context, nameQuery string) ([]Category, error)

	GetByID(ctx context.Context, id string) (Category, error)

	// ListByIDs returns the categories for ids; missing ids are simply absent
	// from the result.
	ListByIDs(ctx context.Context, ids []string) ([]Category, error)

	// Create returns ErrConflict when the normalized name already exists.
	Create(ctx context.Context, c Category) (Category, error)

	// Update replaces name and description. ErrNotFound when id is absent,
	// ErrConflict when the new name collides.
	Update(ctx context.Context, c Category) (Category, error)

	// Delete removes the category and its product associations.
	Delete(ctx context.Context, id string) error
}
