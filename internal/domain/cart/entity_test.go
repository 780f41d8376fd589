// internal/domain/cart/entity_test.go
package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c, err := NewCart(" cart-1 ", " cust-1 ", now)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", c.ID)
	assert.Equal(t, "cust-1", c.CustomerID)

	_, err = NewCart("", "cust-1", now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewCart("cart-1", "  ", now)
	assert.ErrorIs(t, err, ErrInvalidCustomerID)
}

func TestNewLine(t *testing.T) {
	l, err := NewLine("cart-1", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Quantity)

	_, err = NewLine("cart-1", "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLine("cart-1", "p1", -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestIsValidAction(t *testing.T) {
	assert.True(t, IsValidAction(ActionIncrease))
	assert.True(t, IsValidAction(ActionReduce))
	assert.True(t, IsValidAction(ActionDelete))
	assert.False(t, IsValidAction(LineAction("double")))
	assert.False(t, IsValidAction(LineAction("")))
}
