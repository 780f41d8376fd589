// internal/application/usecase/mocks_test.go
package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	cartdom "digitalstore/internal/domain/cart"
	categorydom "digitalstore/internal/domain/category"
	orderdom "digitalstore/internal/domain/order"
	permissiondom "digitalstore/internal/domain/permission"
	productdom "digitalstore/internal/domain/product"
	userdom "digitalstore/internal/domain/user"
)

// fixedClock always returns the configured instant.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// nopTxManager runs the function without a real transaction. failAfter lets
// atomicity tests abort mid-flight.
type nopTxManager struct {
	calls int
}

func (m *nopTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// ==============================
// user repository
// ==============================

type mockUserRepository struct {
	store map[string]userdom.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{store: make(map[string]userdom.User)}
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (userdom.User, error) {
	u, ok := m.store[id]
	if !ok {
		return userdom.User{}, userdom.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByFirebaseUID(_ context.Context, uid string) (userdom.User, error) {
	for _, u := range m.store {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			return u, nil
		}
	}
	return userdom.User{}, userdom.ErrNotFound
}

func (m *mockUserRepository) Create(_ context.Context, u userdom.User) (userdom.User, error) {
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return userdom.User{}, userdom.ErrConflict
		}
	}
	m.store[u.ID] = u
	return u, nil
}

func (m *mockUserRepository) MarkActive(_ context.Context, id string, at time.Time) error {
	u, ok := m.store[id]
	if !ok {
		return userdom.ErrNotFound
	}
	u.IsActive = true
	u.ActivatedAt = &at
	m.store[id] = u
	return nil
}

func (m *mockUserRepository) GrantCapabilities(_ context.Context, id string, caps []permissiondom.Capability) error {
	u, ok := m.store[id]
	if !ok {
		return userdom.ErrNotFound
	}
	u.Grant(caps)
	m.store[id] = u
	return nil
}

// ==============================
// category repository
// ==============================

type mockCategoryRepository struct {
	store map[string]categorydom.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{store: make(map[string]categorydom.Category)}
}

func (m *mockCategoryRepository) List(_ context.Context, nameQuery string) ([]categorydom.Category, error) {
	q := strings.ToLower(strings.TrimSpace(nameQuery))
	var out []categorydom.Category
	for _, c := range m.store {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) GetByID(_ context.Context, id string) (categorydom.Category, error) {
	c, ok := m.store[id]
	if !ok {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) ListByIDs(_ context.Context, ids []string) ([]categorydom.Category, error) {
	var out []categorydom.Category
	for _, id := range ids {
		if c, ok := m.store[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) Create(_ context.Context, c categorydom.Category) (categorydom.Category, error) {
	for _, existing := range m.store {
		if existing.Name == c.Name {
			return categorydom.Category{}, categorydom.ErrConflict
		}
	}
	m.store[c.ID] = c
	return c, nil
}

func (m *mockCategoryRepository) Update(_ context.Context, c categorydom.Category) (categorydom.Category, error) {
	if _, ok := m.store[c.ID]; !ok {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	for id, existing := range m.store {
		if id != c.ID && existing.Name == c.Name {
			return categorydom.Category{}, categorydom.ErrConflict
		}
	}
	m.store[c.ID] = c
	return c, nil
}

func (m *mockCategoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return categorydom.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ==============================
// product repository
// ==============================

type mockProductRepository struct {
	store map[string]productdom.Product

	// failUpdate forces Update to error, for atomicity tests.
	failUpdate error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[string]productdom.Product)}
}

func (m *mockProductRepository) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := m.store[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepository) ListByIDs(_ context.Context, ids []string) ([]productdom.Product, error) {
	var out []productdom.Product
	for _, id := range ids {
		if p, ok := m.store[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) List(_ context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	var out []productdom.Product
	for _, p := range m.store {
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.NameQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.NameQuery)) {
			continue
		}
		if filter.CategoryID != "" {
			found := false
			for _, cid := range p.CategoryIDs {
				if cid == filter.CategoryID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProductRepository) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	m.store[p.ID] = p
	return p, nil
}

func (m *mockProductRepository) Update(_ context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	if m.failUpdate != nil {
		return productdom.Product{}, m.failUpdate
	}
	p, ok := m.store[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CategoryIDs != nil {
		p.CategoryIDs = *patch.CategoryIDs
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	m.store[id] = p
	return p, nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ==============================
// cart repository
// ==============================

type lineKey struct{ cartID, productID string }

type mockCartRepository struct {
	byCustomer map[string]cartdom.Cart
	lines      map[lineKey]cartdom.Line

	// failCreate simulates losing the unique-constraint race once.
	failCreateOnce bool
	// failClear forces ClearLines to error, for atomicity tests.
	failClear error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		byCustomer: make(map[string]cartdom.Cart),
		lines:      make(map[lineKey]cartdom.Line),
	}
}

func (m *mockCartRepository) GetByCustomerID(_ context.Context, customerID string) (cartdom.Cart, error) {
	c, ok := m.byCustomer[customerID]
	if !ok {
		return cartdom.Cart{}, cartdom.ErrNotFound
	}
	return c, nil
}

func (m *mockCartRepository) Create(_ context.Context, c cartdom.Cart) (cartdom.Cart, error) {
	if m.failCreateOnce {
		m.failCreateOnce = false
		return cartdom.Cart{}, cartdom.ErrConflict
	}
	if _, ok := m.byCustomer[c.CustomerID]; ok {
		return cartdom.Cart{}, cartdom.ErrConflict
	}
	m.byCustomer[c.CustomerID] = c
	return c, nil
}

func (m *mockCartRepository) GetLineForUpdate(_ context.Context, cartID, productID string) (cartdom.Line, error) {
	l, ok := m.lines[lineKey{cartID, productID}]
	if !ok {
		return cartdom.Line{}, cartdom.ErrLineNotFound
	}
	return l, nil
}

func (m *mockCartRepository) UpsertLine(_ context.Context, l cartdom.Line) error {
	m.lines[lineKey{l.CartID, l.ProductID}] = l
	return nil
}

func (m *mockCartRepository) DeleteLine(_ context.Context, cartID, productID string) error {
	delete(m.lines, lineKey{cartID, productID})
	return nil
}

func (m *mockCartRepository) Lines(_ context.Context, cartID string) ([]cartdom.Line, error) {
	var out []cartdom.Line
	for k, l := range m.lines {
		if k.cartID == cartID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *mockCartRepository) ClearLines(_ context.Context, cartID string) error {
	if m.failClear != nil {
		return m.failClear
	}
	for k := range m.lines {
		if k.cartID == cartID {
			delete(m.lines, k)
		}
	}
	return nil
}

// ==============================
// order repository
// ==============================

type mockOrderRepository struct {
	store map[string]orderdom.Order

	failCreate error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{store: make(map[string]orderdom.Order)}
}

func (m *mockOrderRepository) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := m.store[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) ListByCustomerID(_ context.Context, customerID string) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range m.store {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (m *mockOrderRepository) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	if m.failCreate != nil {
		return orderdom.Order{}, m.failCreate
	}
	if _, ok := m.store[o.ID]; ok {
		return orderdom.Order{}, orderdom.ErrConflict
	}
	m.store[o.ID] = o
	return o, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, status orderdom.Status) (orderdom.Order, error) {
	o, ok := m.store[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	o.Status = status
	m.store[id] = o
	return o, nil
}

// ==============================
// mail / image store
// ==============================

type sentMail struct {
	From, To, Subject, Body string
}

type mockEmailClient struct {
	sent []sentMail
	fail error
}

func (m *mockEmailClient) Send(_ context.Context, from, to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{From: from, To: to, Subject: subject, Body: body})
	return nil
}

type mockImageStore struct {
	uploads int
	fail    error
}

func (m *mockImageStore) Upload(_ context.Context, productID, filename, _ string, _ []byte) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	m.uploads++
	return "https://storage.googleapis.com/test-bucket/products/" + productID + "/" + filename, nil
}

var errBoom = errors.New("boom")
