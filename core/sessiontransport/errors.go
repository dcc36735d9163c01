package sessiontransport

import "errors"

var (
	// ErrNoIdentifier is returned when no previously issued identifier is
	// recoverable from the request. Callers mint a fresh one; this is the
	// normal first-visit path, not a failure.
	ErrNoIdentifier = errors.New("sessiontransport: no session identifier")
)
