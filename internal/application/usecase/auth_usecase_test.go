// internal/application/usecase/auth_usecase_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdom "digitalstore/internal/domain/account"
	permissiondom "digitalstore/internal/domain/permission"
	userdom "digitalstore/internal/domain/user"
)

func setupAuth(t *testing.T) (*AuthUsecase, *mockUserRepository, *accountdom.TokenService, fixedClock) {
	t.Helper()
	users := newMockUserRepository()
	tokens := accountdom.NewTokenService("test-secret", 0)
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc := NewAuthUsecaseWithClock(users, tokens, &nopTxManager{}, clock)
	return uc, users, tokens, clock
}

func seedUser(t *testing.T, users *mockUserRepository, id string, role userdom.Role, registeredAt time.Time) userdom.User {
	t.Helper()
	u, err := userdom.New(id, "user-"+id, id+"@example.com", role, nil, registeredAt)
	require.NoError(t, err)
	users.store[u.ID] = u
	return u
}

func TestAuthorize(t *testing.T) {
	uc, _, _, _ := setupAuth(t)

	seller := userdom.User{ID: "s1", IsActive: true, Capabilities: permissiondom.SellerCapabilities()}
	customer := userdom.User{ID: "c1", IsActive: true}
	inactiveSeller := userdom.User{ID: "s2", IsActive: false, Capabilities: permissiondom.SellerCapabilities()}

	t.Run("active seller holds all catalog capabilities", func(t *testing.T) {
		for _, cap := range permissiondom.SellerCapabilities() {
			assert.True(t, uc.Authorize(seller, cap), "capability %s", cap)
		}
	})

	t.Run("customer is denied", func(t *testing.T) {
		assert.False(t, uc.Authorize(customer, permissiondom.ProductAdd))
		assert.ErrorIs(t, uc.Require(customer, permissiondom.ProductAdd), userdom.ErrForbidden)
	})

	t.Run("inactive account is denied even with capabilities", func(t *testing.T) {
		assert.False(t, uc.Authorize(inactiveSeller, permissiondom.ProductAdd))
	})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("seller gains the capability set", func(t *testing.T) {
		uc, users, tokens, clock := setupAuth(t)
		u := seedUser(t, users, "u1", userdom.RoleSeller, clock.now.Add(-time.Hour))
		token := tokens.Generate(u, clock.now.Add(-time.Hour))

		activated, err := uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		require.NoError(t, err)
		assert.True(t, activated.IsActive)
		require.NotNil(t, activated.ActivatedAt)
		for _, cap := range permissiondom.SellerCapabilities() {
			assert.True(t, activated.HasCapability(cap))
		}

		stored := users.store[u.ID]
		assert.True(t, stored.IsActive)
		assert.Len(t, stored.Capabilities, len(permissiondom.SellerCapabilities()))
	})

	t.Run("customer activates without capabilities", func(t *testing.T) {
		uc, users, tokens, clock := setupAuth(t)
		u := seedUser(t, users, "u2", userdom.RoleCustomer, clock.now.Add(-time.Hour))
		token := tokens.Generate(u, clock.now.Add(-time.Hour))

		activated, err := uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		require.NoError(t, err)
		assert.True(t, activated.IsActive)
		assert.Empty(t, activated.Capabilities)
	})

	t.Run("second activation is rejected", func(t *testing.T) {
		uc, users, tokens, clock := setupAuth(t)
		u := seedUser(t, users, "u3", userdom.RoleSeller, clock.now.Add(-time.Hour))
		token := tokens.Generate(u, clock.now.Add(-time.Hour))

		_, err := uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		require.NoError(t, err)

		_, err = uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		assert.ErrorIs(t, err, userdom.ErrAlreadyActive)
	})

	t.Run("unknown subject maps to invalid token", func(t *testing.T) {
		uc, _, _, _ := setupAuth(t)
		_, err := uc.Activate(ctx, accountdom.EncodeUID("ghost"), "a.b")
		assert.ErrorIs(t, err, accountdom.ErrInvalidToken)
	})

	t.Run("garbage subject and empty token", func(t *testing.T) {
		uc, users, _, clock := setupAuth(t)
		u := seedUser(t, users, "u4", userdom.RoleSeller, clock.now.Add(-time.Hour))

		_, err := uc.Activate(ctx, "%%%not-base64url", "a.b")
		assert.ErrorIs(t, err, accountdom.ErrInvalidToken)

		_, err = uc.Activate(ctx, accountdom.EncodeUID(u.ID), "  ")
		assert.ErrorIs(t, err, accountdom.ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		uc, users, tokens, clock := setupAuth(t)
		u := seedUser(t, users, "u5", userdom.RoleSeller, clock.now.Add(-30*24*time.Hour))
		token := tokens.Generate(u, clock.now.Add(-4*24*time.Hour))

		_, err := uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		assert.ErrorIs(t, err, accountdom.ErrInvalidToken)
	})

	t.Run("stale fingerprint invalidates the token", func(t *testing.T) {
		uc, users, tokens, clock := setupAuth(t)
		u := seedUser(t, users, "u6", userdom.RoleSeller, clock.now.Add(-time.Hour))
		token := tokens.Generate(u, clock.now.Add(-time.Hour))

		// email change after issue breaks the state fingerprint
		changed := users.store[u.ID]
		changed.Email = "new@example.com"
		users.store[u.ID] = changed

		_, err := uc.Activate(ctx, accountdom.EncodeUID(u.ID), token)
		assert.ErrorIs(t, err, accountdom.ErrInvalidToken)
	})
}
