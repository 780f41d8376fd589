// internal/domain/user/repository_port.go
package user

import (
	"context"
	"time"

	"digitalstore/internal/domain/permission"
)

// Repository is the persistence port for users and their capability grants.
//
// Not-found handling policy: implementations return ErrNotFound (never nil,
// nil) so callers can branch on the sentinel.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (User, error)

	// Create persists an inactive user. A duplicate email or firebase uid
	// returns ErrConflict.
	Create(ctx context.Context, u User) (User, error)

	// MarkActive sets is_active and activated_at for id.
	MarkActive(ctx context.Context, id string, at time.Time) error

	// GrantCapabilities attaches caps to id, ignoring duplicates.
	GrantCapabilities(ctx context.Context, id string, caps []permission.Capability) error
}
