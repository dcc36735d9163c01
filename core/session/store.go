package session

import "context"

// Store defines the persistence contract for session records, keyed by the
// opaque session identifier. Implementations must handle concurrent access
// safely: Put/Delete on one identifier are atomic with respect to Get on the
// same identifier, and operations on distinct identifiers are independent.
type Store interface {
	// Put atomically overwrites any record stored under id.
	Put(ctx context.Context, id ID, rec Record) error

	// Get returns the record stored under id. Absent, expired, and
	// unparseable records all yield ErrNotFound; expired and corrupted
	// entries are proactively deleted. Storage-level failures never leak a
	// partial record.
	Get(ctx context.Context, id ID) (Record, error)

	// Delete removes the record stored under id. Idempotent: deleting an
	// absent record is not an error.
	Delete(ctx context.Context, id ID) error

	// Sweep deletes every record whose retention window has passed and
	// returns the count removed. Safe to run concurrently with operations on
	// unrelated identifiers; a concurrent Put wins over the sweep because
	// deletion is gated on a fresh expiry check.
	Sweep(ctx context.Context) (int64, error)
}
