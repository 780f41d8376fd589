// internal/domain/product/repository_port.go
package product

import "context"

// Filter narrows product listings.
type Filter struct {
	NameQuery  string // case-insensitive substring match on name
	CategoryID string // only products associated with this category
	SellerID   string // only products owned by this seller
}

// Repository is the persistence port for products and their category
// associations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Product, error)

	// ListByIDs returns products for ids; missing ids are absent from the
	// result.
	ListByIDs(ctx context.Context, ids []string) ([]Product, error)

	List(ctx context.Context, filter Filter) ([]Product, error)

	Create(ctx context.Context, p Product) (Product, error)

	// Update applies the patch; the seller column is never touched.
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)

	Delete(ctx context.Context, id string) error
}
