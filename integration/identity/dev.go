package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DevUser is a seeded development identity.
type DevUser struct {
	Claims       Claims
	Token        string
	Disabled     bool
	passwordHash []byte
}

// NewDevUser creates a seeded identity with a bcrypt-hashed password and a
// deterministic dev token built from the given suffix (e.g. "admin" yields
// "dev-mock-token-admin").
func NewDevUser(email, name, password, tokenSuffix string) (DevUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return DevUser{}, fmt.Errorf("identity: hash dev password: %w", err)
	}
	return DevUser{
		Claims: Claims{
			SubjectID: "dev-mock-uid-" + tokenSuffix,
			Email:     email,
			Name:      name,
		},
		Token:        "dev-mock-token-" + tokenSuffix,
		passwordHash: hash,
	}, nil
}

// DevProvider serves fixed seeded identities without any network access.
// Tokens it issues carry the dev bypass prefix, so the session validator
// never re-checks them remotely. Only wire it in non-production modes.
type DevProvider struct {
	mu      sync.RWMutex
	byEmail map[string]DevUser
	byToken map[string]DevUser
}

// NewDevProvider creates a provider over the given seeded identities.
func NewDevProvider(users ...DevUser) *DevProvider {
	p := &DevProvider{
		byEmail: make(map[string]DevUser, len(users)),
		byToken: make(map[string]DevUser, len(users)),
	}
	for _, u := range users {
		p.byEmail[u.Claims.Email] = u
		p.byToken[u.Token] = u
	}
	return p
}

// DefaultDevUsers returns the two identities the dashboard dev mode ships
// with: an admin and a trainer. Passwords equal the local part of the email.
func DefaultDevUsers() ([]DevUser, error) {
	admin, err := NewDevUser("admin@pimba.com", "Dev Admin", "admin", "admin")
	if err != nil {
		return nil, err
	}
	trainer, err := NewDevUser("personal@pimba.com", "Dev Trainer", "personal", "personal")
	if err != nil {
		return nil, err
	}
	return []DevUser{admin, trainer}, nil
}

// AddUser registers an additional seeded identity at runtime.
func (p *DevProvider) AddUser(u DevUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byEmail[u.Claims.Email] = u
	p.byToken[u.Token] = u
}

// SignInWithPassword implements Provider.
func (p *DevProvider) SignInWithPassword(ctx context.Context, email, password string) (string, Claims, error) {
	p.mu.RLock()
	u, ok := p.byEmail[email]
	p.mu.RUnlock()

	if !ok {
		return "", Claims{}, ErrEmailNotFound
	}
	if u.Disabled {
		return "", Claims{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return "", Claims{}, ErrInvalidPassword
	}

	return u.Token, u.Claims, nil
}

// VerifyToken implements Provider.
func (p *DevProvider) VerifyToken(ctx context.Context, token string) (Claims, error) {
	p.mu.RLock()
	u, ok := p.byToken[token]
	p.mu.RUnlock()

	if !ok || u.Disabled {
		return Claims{}, ErrInvalidToken
	}
	return u.Claims, nil
}

// RandomDevToken returns a unique dev bypass token. Useful when a test needs
// several distinct dev sessions.
func RandomDevToken() string {
	return "dev-mock-" + uuid.NewString()
}
