package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password with a
	// single user-facing failure, so login responses never confirm whether
	// an email is registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled indicates the account exists but has been disabled.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrProviderUnavailable indicates the identity provider or business API
	// could not be reached. Distinct from credential failure so the UI can
	// say "try again later" instead of blaming the password.
	ErrProviderUnavailable = errors.New("authentication service unavailable")

	// ErrDevLoginDisabled is returned when a dev login is attempted outside
	// development mode.
	ErrDevLoginDisabled = errors.New("development login is disabled")
)
