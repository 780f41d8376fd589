// internal/application/usecase/catalog_usecase_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdom "digitalstore/internal/domain/account"
	categorydom "digitalstore/internal/domain/category"
	permissiondom "digitalstore/internal/domain/permission"
	productdom "digitalstore/internal/domain/product"
	userdom "digitalstore/internal/domain/user"
)

func setupCatalog(t *testing.T) (*CatalogUsecase, *mockCategoryRepository, *mockProductRepository, *mockImageStore) {
	t.Helper()
	categories := newMockCategoryRepository()
	products := newMockProductRepository()
	images := &mockImageStore{}
	auth := NewAuthUsecase(newMockUserRepository(), accountdom.NewTokenService("test-secret", 0), &nopTxManager{})
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc := NewCatalogUsecaseWithClock(categories, products, auth, images, clock)
	return uc, categories, products, images
}

func activeSeller(id string) userdom.User {
	return userdom.User{ID: id, IsActive: true, Capabilities: permissiondom.SellerCapabilities()}
}

func activeCustomer(id string) userdom.User {
	return userdom.User{ID: id, IsActive: true}
}

func TestCategoryMutations(t *testing.T) {
	ctx := context.Background()
	seller := activeSeller("seller-1")
	customer := activeCustomer("cust-1")

	t.Run("create normalizes the name", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		c, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: "video GAMES", Description: "desc"})
		require.NoError(t, err)
		assert.Equal(t, "Video games", c.Name)
	})

	t.Run("same name after normalization conflicts", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		_, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: "Books"})
		require.NoError(t, err)
		_, err = uc.CreateCategory(ctx, seller, CategoryInput{Name: "bOOKS"})
		assert.ErrorIs(t, err, categorydom.ErrConflict)
	})

	t.Run("customer cannot mutate categories", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		_, err := uc.CreateCategory(ctx, customer, CategoryInput{Name: "Books"})
		assert.ErrorIs(t, err, userdom.ErrForbidden)
		_, err = uc.UpdateCategory(ctx, customer, "c1", CategoryInput{Name: "Books"})
		assert.ErrorIs(t, err, userdom.ErrForbidden)
		assert.ErrorIs(t, uc.DeleteCategory(ctx, customer, "c1"), userdom.ErrForbidden)
	})

	t.Run("inactive seller is denied", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		inactive := userdom.User{ID: "s2", Capabilities: permissiondom.SellerCapabilities()}

		_, err := uc.CreateCategory(ctx, inactive, CategoryInput{Name: "Books"})
		assert.ErrorIs(t, err, userdom.ErrForbidden)
	})

	t.Run("list is name-ordered and filterable", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		for _, name := range []string{"Music", "Books", "Board games"} {
			_, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: name})
			require.NoError(t, err)
		}

		all, err := uc.ListCategories(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Board games", all[0].Name)
		assert.Equal(t, "Books", all[1].Name)
		assert.Equal(t, "Music", all[2].Name)

		filtered, err := uc.ListCategories(ctx, "bo")
		require.NoError(t, err)
		assert.Len(t, filtered, 2)
	})

	t.Run("update renames with normalization", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		c, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: "Books"})
		require.NoError(t, err)

		updated, err := uc.UpdateCategory(ctx, seller, c.ID, CategoryInput{Name: "USED books"})
		require.NoError(t, err)
		assert.Equal(t, "Used books", updated.Name)
	})

	t.Run("delete removes the category", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		c, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: "Books"})
		require.NoError(t, err)

		require.NoError(t, uc.DeleteCategory(ctx, seller, c.ID))
		_, err = uc.GetCategory(ctx, c.ID)
		assert.ErrorIs(t, err, categorydom.ErrNotFound)
	})
}

func TestProductMutations(t *testing.T) {
	ctx := context.Background()
	seller := activeSeller("seller-1")
	customer := activeCustomer("cust-1")

	t.Run("ownership comes from the principal", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		p, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Game key",
			Price: decimal.RequireFromString("49.99"),
		})
		require.NoError(t, err)
		assert.Equal(t, seller.ID, p.SellerID)
	})

	t.Run("customer cannot create products", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		_, err := uc.CreateProduct(ctx, customer, ProductInput{
			Name:  "Game key",
			Price: decimal.RequireFromString("49.99"),
		})
		assert.ErrorIs(t, err, userdom.ErrForbidden)
	})

	t.Run("price bounds", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		_, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Too pricey",
			Price: decimal.RequireFromString("1000.00"),
		})
		assert.ErrorIs(t, err, productdom.ErrInvalidPrice)

		_, err = uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Negative",
			Price: decimal.RequireFromString("-1"),
		})
		assert.ErrorIs(t, err, productdom.ErrInvalidPrice)

		_, err = uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Sub-cent",
			Price: decimal.RequireFromString("9.999"),
		})
		assert.ErrorIs(t, err, productdom.ErrInvalidPrice)
	})

	t.Run("unknown category rejects the product", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)

		_, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:        "Game key",
			Price:       decimal.RequireFromString("49.99"),
			CategoryIDs: []string{"ghost"},
		})
		assert.ErrorIs(t, err, categorydom.ErrNotFound)
	})

	t.Run("update patches fields and keeps the owner", func(t *testing.T) {
		uc, _, products, _ := setupCatalog(t)
		p, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Game key",
			Price: decimal.RequireFromString("49.99"),
		})
		require.NoError(t, err)

		newName := "Deluxe game key"
		newPrice := decimal.RequireFromString("59.99")
		updated, err := uc.UpdateProduct(ctx, seller, p.ID, ProductUpdateInput{Name: &newName, Price: &newPrice})
		require.NoError(t, err)
		assert.Equal(t, newName, updated.Name)
		assert.True(t, updated.Price.Equal(newPrice))
		assert.Equal(t, seller.ID, updated.SellerID)
		assert.Equal(t, seller.ID, products.store[p.ID].SellerID)
	})

	t.Run("update validates the patch", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		p, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Game key",
			Price: decimal.RequireFromString("49.99"),
		})
		require.NoError(t, err)

		blank := "  "
		_, err = uc.UpdateProduct(ctx, seller, p.ID, ProductUpdateInput{Name: &blank})
		assert.ErrorIs(t, err, productdom.ErrInvalidName)

		bad := decimal.RequireFromString("1000")
		_, err = uc.UpdateProduct(ctx, seller, p.ID, ProductUpdateInput{Price: &bad})
		assert.ErrorIs(t, err, productdom.ErrInvalidPrice)
	})

	t.Run("list filters by seller and category", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		c, err := uc.CreateCategory(ctx, seller, CategoryInput{Name: "Games"})
		require.NoError(t, err)

		_, err = uc.CreateProduct(ctx, seller, ProductInput{
			Name: "A", Price: decimal.RequireFromString("1.00"), CategoryIDs: []string{c.ID},
		})
		require.NoError(t, err)
		other := activeSeller("seller-2")
		_, err = uc.CreateProduct(ctx, other, ProductInput{
			Name: "B", Price: decimal.RequireFromString("2.00"),
		})
		require.NoError(t, err)

		bySeller, err := uc.ListProducts(ctx, productdom.Filter{SellerID: seller.ID})
		require.NoError(t, err)
		require.Len(t, bySeller, 1)
		assert.Equal(t, "A", bySeller[0].Name)

		byCategory, err := uc.ListProducts(ctx, productdom.Filter{CategoryID: c.ID})
		require.NoError(t, err)
		assert.Len(t, byCategory, 1)
	})
}

func TestAttachProductImage(t *testing.T) {
	ctx := context.Background()
	seller := activeSeller("seller-1")

	t.Run("stores the public url on the product", func(t *testing.T) {
		uc, _, products, images := setupCatalog(t)
		p, err := uc.CreateProduct(ctx, seller, ProductInput{
			Name:  "Game key",
			Price: decimal.RequireFromString("49.99"),
		})
		require.NoError(t, err)

		updated, err := uc.AttachProductImage(ctx, seller, p.ID, "cover.png", "image/png", []byte{1, 2, 3})
		require.NoError(t, err)
		require.NotNil(t, updated.ImageURL)
		assert.Contains(t, *updated.ImageURL, p.ID)
		assert.Equal(t, 1, images.uploads)
		require.NotNil(t, products.store[p.ID].ImageURL)
	})

	t.Run("requires the edit capability", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		_, err := uc.AttachProductImage(ctx, activeCustomer("c1"), "p1", "a.png", "image/png", []byte{1})
		assert.ErrorIs(t, err, userdom.ErrForbidden)
	})

	t.Run("missing image store", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		uc.images = nil
		_, err := uc.AttachProductImage(ctx, seller, "p1", "a.png", "image/png", []byte{1})
		assert.ErrorIs(t, err, ErrImageStoreMissing)
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _, _, _ := setupCatalog(t)
		_, err := uc.AttachProductImage(ctx, seller, "ghost", "a.png", "image/png", []byte{1})
		assert.ErrorIs(t, err, productdom.ErrNotFound)
	})
}
