// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	accountdom "digitalstore/internal/domain/account"
	"digitalstore/internal/domain/common"
	permissiondom "digitalstore/internal/domain/permission"
	userdom "digitalstore/internal/domain/user"
)

// AuthUsecase is the authorization gate: it answers capability checks for
// catalog mutations and runs the one-time account activation that grants
// seller capabilities.
type AuthUsecase struct {
	users  userdom.Repository
	tokens *accountdom.TokenService
	tx     common.TxManager
	clock  Clock
}

func NewAuthUsecase(users userdom.Repository, tokens *accountdom.TokenService, tx common.TxManager) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
		tx:     tx,
		clock:  systemClock{},
	}
}

// NewAuthUsecaseWithClock is useful for tests.
func NewAuthUsecaseWithClock(users userdom.Repository, tokens *accountdom.TokenService, tx common.TxManager, clock Clock) *AuthUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &AuthUsecase{users: users, tokens: tokens, tx: tx, clock: clock}
}

// Authorize reports whether the principal is active and holds the required
// capability. The principal is an explicit argument; the gate never reads an
// ambient current user.
func (uc *AuthUsecase) Authorize(principal userdom.User, required permissiondom.Capability) bool {
	if !principal.IsActive {
		return false
	}
	return principal.HasCapability(required)
}

// Require is Authorize as an error: user.ErrForbidden when the check fails.
func (uc *AuthUsecase) Require(principal userdom.User, required permissiondom.Capability) error {
	if !uc.Authorize(principal, required) {
		return userdom.ErrForbidden
	}
	return nil
}

// Activate exchanges an activation link (subject + token) for the active
// flag. The token must match the account's current state fingerprint; a
// stale fingerprint (changed email, already flipped flag, unknown id) fails
// with account.ErrInvalidToken. Re-activating an active account is rejected
// with user.ErrAlreadyActive rather than repeated. A seller gains the full
// catalog capability set in the same transaction.
func (uc *AuthUsecase) Activate(ctx context.Context, subject, token string) (userdom.User, error) {
	id, err := accountdom.DecodeUID(subject)
	if err != nil {
		return userdom.User{}, err
	}
	if strings.TrimSpace(token) == "" {
		return userdom.User{}, accountdom.ErrInvalidToken
	}

	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userdom.ErrNotFound) {
			// do not reveal whether the subject exists
			return userdom.User{}, accountdom.ErrInvalidToken
		}
		return userdom.User{}, err
	}

	if u.IsActive {
		return userdom.User{}, userdom.ErrAlreadyActive
	}

	if err := uc.tokens.Verify(u, token, uc.clock.Now()); err != nil {
		return userdom.User{}, err
	}

	now := uc.clock.Now()
	if err := u.Activate(now); err != nil {
		return userdom.User{}, err
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.users.MarkActive(ctx, u.ID, now); err != nil {
			return err
		}
		if u.Role == userdom.RoleSeller {
			caps := permissiondom.SellerCapabilities()
			if err := uc.users.GrantCapabilities(ctx, u.ID, caps); err != nil {
				return err
			}
			u.Grant(caps)
		}
		return nil
	})
	if err != nil {
		return userdom.User{}, err
	}

	log.Printf("[auth_uc] account activated userId=%s role=%s", u.ID, u.Role)
	return u, nil
}
