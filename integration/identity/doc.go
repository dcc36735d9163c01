// Package identity integrates with the external identity provider: opaque
// bearer token issuance via password exchange and verification of issued
// tokens.
//
// The provider is a black box reached over HTTP. Its error taxonomy is
// normalized at this boundary into sentinel errors (ErrEmailNotFound,
// ErrInvalidPassword, ErrUserDisabled, ErrInvalidToken, ErrUnavailable) so
// the login flow can distinguish credential failure from connectivity failure
// without parsing provider-specific codes.
//
// DevProvider is the non-production counterpart: fixed seeded identities with
// bcrypt-hashed passwords, issuing dev-bypass tokens that the session
// validator accepts without any network call.
package identity
