package session

import "errors"

var (
	// ErrNotFound is returned when no record exists for an identifier. Expired
	// and corrupted records are reported identically, per the store contract.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a record exists but its retention window has
	// passed. Callers treat it as absence; it exists separately for logging.
	ErrExpired = errors.New("session has expired")
	// ErrInvalidID is returned when an identifier fails charset or length
	// validation before any storage access.
	ErrInvalidID = errors.New("invalid session identifier")
	// ErrIDGeneration is returned when the system entropy source fails.
	ErrIDGeneration = errors.New("failed to generate session identifier")
	// ErrMissingToken is returned when creating a record without a bearer token.
	ErrMissingToken = errors.New("bearer token is required")
	// ErrInvalidRole is returned when creating a record with an unknown role.
	ErrInvalidRole = errors.New("unknown user role")
	// ErrSaveRecord is returned when persisting a record to the store fails.
	ErrSaveRecord = errors.New("failed to save session record")
	// ErrDeleteRecord is returned when deleting a record from the store fails.
	ErrDeleteRecord = errors.New("failed to delete session record")
	// ErrTokenRejected marks an explicit authorization rejection (401/403) by
	// the remote validation endpoint, as opposed to a connectivity failure.
	ErrTokenRejected = errors.New("token rejected by remote validation")
)
