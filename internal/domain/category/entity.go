// internal/domain/category/entity.go
package category

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidID   = errors.New("category: invalid id")
	ErrInvalidName = errors.New("category: invalid name")
	ErrNotFound    = errors.New("category: not found")
	ErrConflict    = errors.New("category: conflict")
)

// Policy
var (
	MaxNameLength = 255
)

// Category groups products. Name is unique and case-normalized to a
// capitalized form on creation and update. Listing order is lexicographic
// by name.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// New creates a category with the normalized name.
func New(id, name, description string) (Category, error) {
	c := Category{
		ID:          strings.TrimSpace(id),
		Name:        NormalizeName(name),
		Description: strings.TrimSpace(description),
	}
	if err := c.validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Rename replaces name (normalized) and description.
func (c *Category) Rename(name, description string) error {
	n := NormalizeName(name)
	if n == "" || len([]rune(n)) > MaxNameLength {
		return ErrInvalidName
	}
	c.Name = n
	c.Description = strings.TrimSpace(description)
	return nil
}

// NormalizeName lowercases the name and upper-cases the first rune, so that
// "video GAMES" and "Video games" refer to the same category.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func (c Category) validate() error {
	if c.ID == "" {
		return ErrInvalidID
	}
	if c.Name == "" || len([]rune(c.Name)) > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}
