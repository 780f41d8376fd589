// internal/domain/account/token.go
package account

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"digitalstore/internal/domain/user"
)

var (
	ErrInvalidToken = errors.New("account: invalid or expired activation token")
)

// DefaultTokenTTL bounds how long an activation link stays usable.
const DefaultTokenTTL = 3 * 24 * time.Hour

// TokenService issues and verifies one-time activation tokens.
//
// A token is "<ts>.<mac>" where ts is the base36 issue time and mac is an
// HMAC-SHA256 over the account's state fingerprint plus ts. The fingerprint
// covers id, registration timestamp, active flag and email — changing any of
// them invalidates every outstanding token, so a link can only be exchanged
// against the exact account state it was issued for.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Generate issues a token bound to u's current state.
func (s *TokenService) Generate(u user.User, now time.Time) string {
	ts := strconv.FormatInt(now.UTC().Unix(), 36)
	return ts + "." + s.sign(u, ts)
}

// Verify checks token against u's current state fingerprint.
func (s *TokenService) Verify(u user.User, token string, now time.Time) error {
	ts, mac, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || ts == "" || mac == "" {
		return ErrInvalidToken
	}

	issuedAt, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return ErrInvalidToken
	}
	age := now.UTC().Sub(time.Unix(issuedAt, 0).UTC())
	if age < 0 || age > s.ttl {
		return ErrInvalidToken
	}

	if !hmac.Equal([]byte(mac), []byte(s.sign(u, ts))) {
		return ErrInvalidToken
	}
	return nil
}

func (s *TokenService) sign(u user.User, ts string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(fingerprint(u)))
	h.Write([]byte("|"))
	h.Write([]byte(ts))
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprint derives the state value a token is bound to.
func fingerprint(u user.User) string {
	return strings.Join([]string{
		u.ID,
		strconv.FormatInt(u.RegisteredAt.UTC().Unix(), 10),
		strconv.FormatBool(u.IsActive),
		strings.ToLower(strings.TrimSpace(u.Email)),
	}, "|")
}

// EncodeUID encodes a user id into the URL-safe activation link subject.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(subject string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(subject))
	if err != nil || len(b) == 0 {
		return "", ErrInvalidToken
	}
	return string(b), nil
}
