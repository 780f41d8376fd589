// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidID         = errors.New("cart: invalid id")
	ErrInvalidCustomerID = errors.New("cart: invalid customerId")
	ErrInvalidQuantity   = errors.New("cart: invalid quantity")
	ErrInvalidAction     = errors.New("cart: invalid action")
	ErrNotFound          = errors.New("cart: not found")
	ErrLineNotFound      = errors.New("cart: line not found")
	ErrConflict          = errors.New("cart: conflict")
)

// LineAction is the discriminator for a cart line mutation.
type LineAction string

const (
	ActionIncrease LineAction = "increase"
	ActionReduce   LineAction = "reduce"
	ActionDelete   LineAction = "delete"
)

func IsValidAction(a LineAction) bool {
	switch a {
	case ActionIncrease, ActionReduce, ActionDelete:
		return true
	default:
		return false
	}
}

// Cart is the per-customer container. Exactly one cart exists per customer
// (unique customer constraint); it is created lazily on first interaction
// and survives checkout — only its lines are consumed.
type Cart struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Line is one (cart, product) entry. Quantity is always >= 1: a line reduced
// below 1 is deleted rather than persisted with a non-positive value.
type Line struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewCart creates an empty cart for customerID.
func NewCart(id, customerID string, now time.Time) (Cart, error) {
	c := Cart{
		ID:         strings.TrimSpace(id),
		CustomerID: strings.TrimSpace(customerID),
		CreatedAt:  now.UTC(),
	}
	if c.ID == "" {
		return Cart{}, ErrInvalidID
	}
	if c.CustomerID == "" {
		return Cart{}, ErrInvalidCustomerID
	}
	return c, nil
}

// NewLine creates a line with quantity qty.
func NewLine(cartID, productID string, qty int) (Line, error) {
	l := Line{
		CartID:    strings.TrimSpace(cartID),
		ProductID: strings.TrimSpace(productID),
		Quantity:  qty,
	}
	if l.CartID == "" {
		return Line{}, ErrInvalidID
	}
	if l.ProductID == "" {
		return Line{}, ErrInvalidID
	}
	if l.Quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	return l, nil
}
