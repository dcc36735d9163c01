package identity

import "context"

// Claims are the identity fields decoded from a verified token. Role and
// tenant scope are not identity concerns; they come from the business API.
type Claims struct {
	SubjectID string
	Email     string
	Name      string
}

// Provider is the identity-provider contract: opaque token issuance via
// password exchange, and verification of previously issued tokens. The
// production implementation talks to the external provider over HTTP; the
// development implementation serves fixed seeded identities.
type Provider interface {
	// SignInWithPassword exchanges credentials for a bearer token. Credential
	// failures map to ErrEmailNotFound, ErrInvalidPassword, or
	// ErrUserDisabled; transport failures map to ErrUnavailable.
	SignInWithPassword(ctx context.Context, email, password string) (string, Claims, error)

	// VerifyToken decodes and validates a previously issued token.
	// Returns ErrInvalidToken for rejected or expired tokens.
	VerifyToken(ctx context.Context, token string) (Claims, error)
}
