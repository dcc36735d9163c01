package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// idLength is the encoded length of a session identifier: 32 random bytes
// (256 bits) as base64url without padding.
const idLength = 43

// ID is an opaque session identifier correlating a browser context to a
// stored Record. Generated with crypto/rand; the identifier is the only
// session state that ever reaches the client.
type ID string

// NewID generates a cryptographically secure session identifier.
func NewID() (ID, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return ID(base64.RawURLEncoding.EncodeToString(b)), nil
}

// Valid reports whether the identifier has the expected length and charset.
// Backends must reject invalid identifiers before touching storage; for the
// file backend this is also the path-traversal guard.
func (id ID) Valid() bool {
	if len(id) != idLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// Role identifies the authorization level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleTrainee:
		return true
	}
	return false
}

// Claims holds the identity fields decoded by the identity provider plus the
// tenant scope resolved by the business API. TenantID is non-zero only for
// trainers; admins operate across tenants.
type Claims struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	TenantID int64  `json:"tenant_id,omitempty"`
}

// Record is the durable unit of truth for one logged-in browser context:
// the bearer token, the user claims, and the lifecycle timestamps. A Record
// is either fully present in the store or absent; backends must never expose
// a partial write.
type Record struct {
	Token     string    `json:"token"`
	User      Claims    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// LoginAt anchors the inactivity window; it only moves on (re-)login.
	LoginAt time.Time `json:"login_at"`
	// ValidatedAt is the last successful remote re-check. It advances only on
	// confirmed validity, so a network outage never silently extends trust.
	ValidatedAt time.Time `json:"validated_at,omitzero"`
}

// NewRecord builds a Record for a fresh login. The retention window is
// absolute: ExpiresAt never slides, it is only reset by another login.
func NewRecord(token string, user Claims, ttl time.Duration) (Record, error) {
	if token == "" {
		return Record{}, ErrMissingToken
	}
	if !user.Role.Valid() {
		return Record{}, ErrInvalidRole
	}

	now := time.Now()
	return Record{
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		LoginAt:   now,
	}, nil
}

// IsExpired reports whether the retention window has passed.
func (r Record) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Authenticated reports whether the record represents a logged-in user.
func (r Record) Authenticated() bool {
	return r.Token != "" && r.User.UserID != ""
}

// IsDev reports whether the record carries a development bypass token.
func (r Record) IsDev(prefix string) bool {
	return prefix != "" && strings.HasPrefix(r.Token, prefix)
}
