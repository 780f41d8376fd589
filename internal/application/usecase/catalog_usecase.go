// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	categorydom "digitalstore/internal/domain/category"
	permissiondom "digitalstore/internal/domain/permission"
	productdom "digitalstore/internal/domain/product"
	userdom "digitalstore/internal/domain/user"
)

// ProductImageStore is an outbound port; the GCS adapter implements it.
type ProductImageStore interface {
	// Upload stores the image bytes and returns the public object URL.
	Upload(ctx context.Context, productID, filename, contentType string, data []byte) (string, error)
}

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")
	ErrImageStoreMissing      = errors.New("catalog_usecase: image store is not configured")
)

// CategoryInput is the field payload for category mutations.
type CategoryInput struct {
	Name        string
	Description string
}

// ProductInput is the field payload for product creation. The seller never
// comes from the payload; it is taken from the authenticated principal.
type ProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	CategoryIDs []string
}

// ProductUpdateInput is the field payload for product updates. The seller
// field is absent on purpose: ownership is never reassigned.
type ProductUpdateInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryIDs *[]string
}

// CatalogUsecase owns category and product mutation, with every mutating
// operation gated by the authorization gate first. Reads are ungated.
type CatalogUsecase struct {
	categories categorydom.Repository
	products   productdom.Repository
	auth       *AuthUsecase
	images     ProductImageStore
	clock      Clock
}

func NewCatalogUsecase(categories categorydom.Repository, products productdom.Repository, auth *AuthUsecase, images ProductImageStore) *CatalogUsecase {
	return &CatalogUsecase{
		categories: categories,
		products:   products,
		auth:       auth,
		images:     images,
		clock:      systemClock{},
	}
}

// NewCatalogUsecaseWithClock is useful for tests.
func NewCatalogUsecaseWithClock(categories categorydom.Repository, products productdom.Repository, auth *AuthUsecase, images ProductImageStore, clock Clock) *CatalogUsecase {
	uc := NewCatalogUsecase(categories, products, auth, images)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// ==============================
// Categories
// ==============================

// ListCategories returns categories ordered by name, optionally filtered by
// a case-insensitive name substring.
func (uc *CatalogUsecase) ListCategories(ctx context.Context, nameQuery string) ([]categorydom.Category, error) {
	return uc.categories.List(ctx, strings.TrimSpace(nameQuery))
}

func (uc *CatalogUsecase) GetCategory(ctx context.Context, id string) (categorydom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return categorydom.Category{}, ErrCatalogInvalidArgument
	}
	return uc.categories.GetByID(ctx, id)
}

func (uc *CatalogUsecase) CreateCategory(ctx context.Context, principal userdom.User, in CategoryInput) (categorydom.Category, error) {
	if err := uc.auth.Require(principal, permissiondom.CategoryAdd); err != nil {
		return categorydom.Category{}, err
	}

	c, err := categorydom.New(uuid.NewString(), in.Name, in.Description)
	if err != nil {
		return categorydom.Category{}, err
	}
	created, err := uc.categories.Create(ctx, c)
	if err != nil {
		return categorydom.Category{}, err
	}
	log.Printf("[catalog_uc] category created id=%s name=%q by=%s", created.ID, created.Name, principal.ID)
	return created, nil
}

func (uc *CatalogUsecase) UpdateCategory(ctx context.Context, principal userdom.User, id string, in CategoryInput) (categorydom.Category, error) {
	if err := uc.auth.Require(principal, permissiondom.CategoryEdit); err != nil {
		return categorydom.Category{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return categorydom.Category{}, ErrCatalogInvalidArgument
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return categorydom.Category{}, err
	}
	if err := c.Rename(in.Name, in.Description); err != nil {
		return categorydom.Category{}, err
	}
	return uc.categories.Update(ctx, c)
}

func (uc *CatalogUsecase) DeleteCategory(ctx context.Context, principal userdom.User, id string) error {
	if err := uc.auth.Require(principal, permissiondom.CategoryDelete); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrCatalogInvalidArgument
	}
	return uc.categories.Delete(ctx, id)
}

// ==============================
// Products
// ==============================

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	return uc.products.List(ctx, filter)
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, ErrCatalogInvalidArgument
	}
	return uc.products.GetByID(ctx, id)
}

// CreateProduct creates a product owned by the principal. Any seller value in
// the transport payload is ignored by construction: ownership comes from the
// authenticated principal only.
func (uc *CatalogUsecase) CreateProduct(ctx context.Context, principal userdom.User, in ProductInput) (productdom.Product, error) {
	if err := uc.auth.Require(principal, permissiondom.ProductAdd); err != nil {
		return productdom.Product{}, err
	}

	if err := uc.ensureCategoriesExist(ctx, in.CategoryIDs); err != nil {
		return productdom.Product{}, err
	}

	p, err := productdom.New(uuid.NewString(), in.Name, in.Description, in.Price, principal.ID, in.CategoryIDs, uc.clock.Now())
	if err != nil {
		return productdom.Product{}, err
	}
	created, err := uc.products.Create(ctx, p)
	if err != nil {
		return productdom.Product{}, err
	}
	log.Printf("[catalog_uc] product created id=%s name=%q sellerId=%s", created.ID, created.Name, created.SellerID)
	return created, nil
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, principal userdom.User, id string, in ProductUpdateInput) (productdom.Product, error) {
	if err := uc.auth.Require(principal, permissiondom.ProductEdit); err != nil {
		return productdom.Product{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, ErrCatalogInvalidArgument
	}
	if in.Price != nil {
		if err := productdom.ValidatePrice(*in.Price); err != nil {
			return productdom.Product{}, err
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return productdom.Product{}, productdom.ErrInvalidName
	}
	if in.CategoryIDs != nil {
		if err := uc.ensureCategoriesExist(ctx, *in.CategoryIDs); err != nil {
			return productdom.Product{}, err
		}
	}

	return uc.products.Update(ctx, id, productdom.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryIDs: in.CategoryIDs,
	})
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, principal userdom.User, id string) error {
	if err := uc.auth.Require(principal, permissiondom.ProductDelete); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrCatalogInvalidArgument
	}
	return uc.products.Delete(ctx, id)
}

// AttachProductImage uploads the image and stores its public URL on the
// product.
func (uc *CatalogUsecase) AttachProductImage(ctx context.Context, principal userdom.User, id, filename, contentType string, data []byte) (productdom.Product, error) {
	if err := uc.auth.Require(principal, permissiondom.ProductEdit); err != nil {
		return productdom.Product{}, err
	}
	if uc.images == nil {
		return productdom.Product{}, ErrImageStoreMissing
	}

	id = strings.TrimSpace(id)
	if id == "" || len(data) == 0 {
		return productdom.Product{}, ErrCatalogInvalidArgument
	}
	if _, err := uc.products.GetByID(ctx, id); err != nil {
		return productdom.Product{}, err
	}

	url, err := uc.images.Upload(ctx, id, filename, contentType, data)
	if err != nil {
		return productdom.Product{}, err
	}
	return uc.products.Update(ctx, id, productdom.ProductPatch{ImageURL: &url})
}

func (uc *CatalogUsecase) ensureCategoriesExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := uc.categories.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, c := range found {
		known[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[strings.TrimSpace(id)]; !ok {
			return categorydom.ErrNotFound
		}
	}
	return nil
}
