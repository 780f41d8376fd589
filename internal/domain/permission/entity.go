// internal/domain/permission/entity.go
package permission

import (
	"errors"
	"regexp"
	"strings"
)

// Resource is the catalog entity a capability applies to.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceProduct  Resource = "product"
)

// Action is the mutation a capability allows.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Capability is an atomic permission tag in the form "<resource>.<action>",
// e.g. "product.add". Capabilities are granted to a principal exactly once,
// at seller activation, and are never revoked by this core.
type Capability string

const (
	CategoryAdd    Capability = "category.add"
	CategoryEdit   Capability = "category.edit"
	CategoryDelete Capability = "category.delete"
	ProductAdd     Capability = "product.add"
	ProductEdit    Capability = "product.edit"
	ProductDelete  Capability = "product.delete"
)

var (
	ErrInvalidCapability = errors.New("permission: invalid capability")
)

var capabilityShapeRe = regexp.MustCompile(`^[a-z]+\.[a-z]+$`)

// SellerCapabilities returns the full set granted at seller activation:
// {add, edit, delete} x {category, product}.
func SellerCapabilities() []Capability {
	return []Capability{
		CategoryAdd,
		CategoryEdit,
		CategoryDelete,
		ProductAdd,
		ProductEdit,
		ProductDelete,
	}
}

// IsValid checks that c is one of the known capability tags.
func IsValid(c Capability) bool {
	switch c {
	case CategoryAdd, CategoryEdit, CategoryDelete,
		ProductAdd, ProductEdit, ProductDelete:
		return true
	default:
		return false
	}
}

// Parse validates a raw tag and returns it as a Capability.
func Parse(raw string) (Capability, error) {
	s := strings.TrimSpace(raw)
	if s == "" || !capabilityShapeRe.MatchString(s) {
		return "", ErrInvalidCapability
	}
	c := Capability(s)
	if !IsValid(c) {
		return "", ErrInvalidCapability
	}
	return c, nil
}

// New builds a capability from its parts.
func New(r Resource, a Action) (Capability, error) {
	return Parse(string(r) + "." + string(a))
}

// Contains reports whether caps includes c.
func Contains(caps []Capability, c Capability) bool {
	for _, v := range caps {
		if v == c {
			return true
		}
	}
	return false
}
