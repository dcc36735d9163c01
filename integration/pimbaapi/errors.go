package pimbaapi

import "errors"

var (
	// ErrUnreachable indicates a network or timeout failure talking to the
	// business API. The session validator treats it as indeterminate, never
	// as invalidation.
	ErrUnreachable = errors.New("pimbaapi: api unreachable")

	// ErrRequestFailed indicates a non-auth HTTP failure (4xx other than
	// 401/403, or 5xx).
	ErrRequestFailed = errors.New("pimbaapi: request failed")
)
