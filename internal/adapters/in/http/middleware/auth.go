// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	userdom "digitalstore/internal/domain/user"
)

// FirebaseAuthClient is an alias so callers can hold the client without
// importing the firebase package directly.
type FirebaseAuthClient = fbauth.Client

type ctxKey struct{ name string }

var (
	ctxKeyUser  = ctxKey{name: "currentUser"}
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// AuthMiddleware verifies
//
//   - Authorization: Bearer <ID_TOKEN>
//
// resolves the store user behind the Firebase UID and puts user/uid/email
// into the request context.
//
// When Attach is true the request proceeds without a principal instead of
// failing with 401; handlers that need one call CurrentUser and reject
// themselves. Public catalog reads share the router with gated mutations,
// so the attach mode is the default there.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
	Users        userdom.Repository

	// Attach makes missing or invalid credentials non-fatal.
	Attach bool
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FirebaseAuth == nil || m.Users == nil {
			if m.Attach {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.deny(w, r, next, "unauthorized: missing bearer token")
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			m.deny(w, r, next, "unauthorized: empty bearer token")
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			m.deny(w, r, next, "invalid token")
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			m.deny(w, r, next, "invalid uid in token")
			return
		}

		u, err := m.Users.GetByFirebaseUID(r.Context(), uid)
		if err != nil {
			log.Printf("[AuthMiddleware] path=%s uid=%s has no store user", r.URL.Path, uid)
			m.deny(w, r, next, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, u)
		ctx = context.WithValue(ctx, ctxKeyUID, uid)
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(e) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(e))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) deny(w http.ResponseWriter, r *http.Request, next http.Handler, msg string) {
	if m.Attach {
		next.ServeHTTP(w, r)
		return
	}
	http.Error(w, msg, http.StatusUnauthorized)
}

// CurrentUser returns the authenticated store user, when present.
func CurrentUser(r *http.Request) (userdom.User, bool) {
	v := r.Context().Value(ctxKeyUser)
	if v == nil {
		return userdom.User{}, false
	}
	u, ok := v.(userdom.User)
	if !ok || u.ID == "" {
		return userdom.User{}, false
	}
	return u, true
}

// CurrentUIDAndEmail returns the verified Firebase UID and email.
func CurrentUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	u, okUID := r.Context().Value(ctxKeyUID).(string)
	if !okUID || strings.TrimSpace(u) == "" {
		return "", "", false
	}
	uid = strings.TrimSpace(u)
	if e, okEmail := r.Context().Value(ctxKeyEmail).(string); okEmail {
		email = strings.TrimSpace(e)
	}
	return uid, email, true
}
