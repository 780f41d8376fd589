// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID       = errors.New("product: invalid id")
	ErrInvalidName     = errors.New("product: invalid name")
	ErrInvalidPrice    = errors.New("product: invalid price")
	ErrInvalidSellerID = errors.New("product: invalid sellerId")
	ErrNotFound        = errors.New("product: not found")
)

// Policy
var (
	MaxNameLength = 255

	// Price is a fixed-point value with 2 fractional digits and at most
	// 5 significant digits, matching the store schema (NUMERIC(5,2)).
	MaxPrice = decimal.RequireFromString("999.99")
)

// Product is a catalog item. The seller is set from the authenticated
// principal at creation and is never reassigned afterwards.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	SellerID    string          `json:"seller_id"`
	CategoryIDs []string        `json:"category_ids,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductPatch represents partial updates. A nil field means "no change".
// SellerID is intentionally absent: ownership is immutable.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryIDs *[]string
	ImageURL    *string
}

// New creates a product owned by sellerID.
func New(id, name string, description *string, price decimal.Decimal, sellerID string, categoryIDs []string, now time.Time) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: trimPtr(description),
		Price:       price,
		SellerID:    strings.TrimSpace(sellerID),
		CategoryIDs: dedupe(categoryIDs),
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ValidatePrice enforces the fixed-point bounds: non-negative, at most two
// fractional digits, not above MaxPrice.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if price.Exponent() < -2 {
		return ErrInvalidPrice
	}
	if price.GreaterThan(MaxPrice) {
		return ErrInvalidPrice
	}
	return nil
}

func (p Product) validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.Name == "" || len([]rune(p.Name)) > MaxNameLength {
		return ErrInvalidName
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if p.SellerID == "" {
		return ErrInvalidSellerID
	}
	return nil
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
