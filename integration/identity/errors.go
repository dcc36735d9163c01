package identity

import "errors"

var (
	// ErrEmailNotFound indicates no account exists for the email. Login flows
	// must not surface this verbatim to avoid confirming account existence.
	ErrEmailNotFound = errors.New("identity: email not found")

	// ErrInvalidPassword indicates the password did not match.
	ErrInvalidPassword = errors.New("identity: invalid password")

	// ErrUserDisabled indicates the account exists but has been disabled.
	ErrUserDisabled = errors.New("identity: user disabled")

	// ErrInvalidToken indicates the token was rejected or has expired.
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrUnavailable indicates the provider could not be reached. Distinct
	// from credential errors so callers can tell connectivity failure from
	// credential failure.
	ErrUnavailable = errors.New("identity: provider unreachable")
)
