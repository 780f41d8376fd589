// internal/domain/permission/entity_test.go
package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellerCapabilities(t *testing.T) {
	caps := SellerCapabilities()
	require.Len(t, caps, 6)

	for _, r := range []Resource{ResourceCategory, ResourceProduct} {
		for _, a := range []Action{ActionAdd, ActionEdit, ActionDelete} {
			c, err := New(r, a)
			require.NoError(t, err)
			assert.True(t, Contains(caps, c), "missing %s", c)
		}
	}
}

func TestParse(t *testing.T) {
	t.Run("valid tags", func(t *testing.T) {
		for _, raw := range []string{"category.add", "product.delete", "  product.edit  "} {
			c, err := Parse(raw)
			require.NoError(t, err, raw)
			assert.True(t, IsValid(c))
		}
	})

	t.Run("invalid tags", func(t *testing.T) {
		for _, raw := range []string{"", "product", "product.", ".add", "product.fly", "Product.Add", "a.b.c"} {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidCapability, "raw=%q", raw)
		}
	})
}

func TestContains(t *testing.T) {
	caps := []Capability{CategoryAdd, ProductEdit}
	assert.True(t, Contains(caps, ProductEdit))
	assert.False(t, Contains(caps, ProductDelete))
	assert.False(t, Contains(nil, CategoryAdd))
}
