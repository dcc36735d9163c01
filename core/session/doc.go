// Package session implements durable login state for the trainer dashboard:
// the session record, its persistence contract, the per-request session
// context, and the validator that decides whether a restored session is still
// trustworthy.
//
// # Model
//
// A Record is the durable truth for one logged-in browser context: the bearer
// token issued by the identity provider, the decoded user claims (including
// the tenant id for trainers), and the lifecycle timestamps. Records are
// keyed by an opaque ID with 256 bits of entropy; the ID is the only session
// state the browser ever holds, carried in a signed cookie by the
// sessiontransport package.
//
// # Persistence
//
// The Store interface has exactly four operations: Put, Get, Delete, Sweep.
// Every failure mode of the underlying storage (missing entry, expired entry,
// corrupted entry) collapses to ErrNotFound at the store boundary; corruption
// is handled by deleting the entry, never by surfacing a parse error.
// Backends live in core/sessionstore: a file-per-identifier backend with
// atomic temp-file-then-rename writes (the default), an in-memory backend,
// and Redis/Postgres backends for multi-instance deployments.
//
// # Lifecycle
//
//	resolve identifier -> hydrate Context from Store -> Validate -> handlers
//
// The Validator runs a small state machine per interaction:
//
//	StateUnvalidated   no authenticated record
//	StateValid         local checks passed; remote re-check passed or not due
//	StateExpiredTimeout inactivity window elapsed since login
//	StateExpiredRemote remote endpoint explicitly rejected the token
//
// Remote re-checks are throttled (default every 5 minutes) and bounded by a
// short timeout. Connectivity failures fail open: only an explicit 401/403
// (ErrTokenRejected) downgrades a session. Development tokens matching the
// configured prefix skip remote validation entirely and remain valid until
// timeout.
//
// Both expiry transitions delete the stored record, so an expired identifier
// can never be replayed and the next interaction starts anonymous.
package session
