// internal/domain/user/entity.go
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"digitalstore/internal/domain/permission"
)

// Errors (single source)
var (
	ErrInvalidID       = errors.New("user: invalid id")
	ErrInvalidUsername = errors.New("user: invalid username")
	ErrInvalidEmail    = errors.New("user: invalid email")
	ErrInvalidRole     = errors.New("user: invalid role")
	ErrAlreadyActive   = errors.New("user: already active")
	ErrNotFound        = errors.New("user: not found")
	ErrConflict        = errors.New("user: conflict")
	ErrForbidden       = errors.New("user: forbidden")
)

// Role: "customer" | "seller"
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

func IsValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleSeller:
		return true
	default:
		return false
	}
}

// Policy
var (
	MaxUsernameLength = 150
)

// User is the principal entity. Role is fixed at registration; the capability
// set is attached once, at seller activation, and checked through the
// authorization gate. The authenticated principal is always passed explicitly
// into core operations, never read from ambient state.
type User struct {
	ID           string                  `json:"id"`
	Username     string                  `json:"username"`
	Email        string                  `json:"email"`
	Role         Role                    `json:"role"`
	IsActive     bool                    `json:"is_active"`
	FirebaseUID  *string                 `json:"firebase_uid,omitempty"`
	Capabilities []permission.Capability `json:"capabilities,omitempty"`
	RegisteredAt time.Time               `json:"registered_at"`
	ActivatedAt  *time.Time              `json:"activated_at,omitempty"`
}

// New creates an inactive user pending email activation.
func New(id, username, email string, role Role, firebaseUID *string, now time.Time) (User, error) {
	u := User{
		ID:           strings.TrimSpace(id),
		Username:     strings.TrimSpace(username),
		Email:        normalizeEmail(email),
		Role:         role,
		IsActive:     false,
		FirebaseUID:  trimPtr(firebaseUID),
		RegisteredAt: now.UTC(),
	}
	if err := u.validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

// Activate flips the active flag. Re-activating an active account is
// rejected, not repeated.
func (u *User) Activate(now time.Time) error {
	if u.IsActive {
		return ErrAlreadyActive
	}
	u.IsActive = true
	at := now.UTC()
	u.ActivatedAt = &at
	return nil
}

// Grant attaches capabilities to the principal (deduplicated).
func (u *User) Grant(caps []permission.Capability) {
	for _, c := range caps {
		if !permission.Contains(u.Capabilities, c) {
			u.Capabilities = append(u.Capabilities, c)
		}
	}
}

// HasCapability reports whether the principal holds c.
func (u User) HasCapability(c permission.Capability) bool {
	return permission.Contains(u.Capabilities, c)
}

func (u User) validate() error {
	if u.ID == "" {
		return ErrInvalidID
	}
	if u.Username == "" || len([]rune(u.Username)) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if !IsValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
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
