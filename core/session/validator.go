package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
)

// State is the validation state of a session within one interaction.
type State int

const (
	// StateUnvalidated means no authenticated record is present.
	StateUnvalidated State = iota
	// StateValid means the record passed local checks and, if due, the remote
	// re-check.
	StateValid
	// StateExpiredTimeout means the inactivity window elapsed since login.
	StateExpiredTimeout
	// StateExpiredRemote means the remote endpoint explicitly rejected the
	// bearer token.
	StateExpiredRemote
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateValid:
		return "valid"
	case StateExpiredTimeout:
		return "expired_timeout"
	case StateExpiredRemote:
		return "expired_remote"
	}
	return "unknown"
}

// RemoteChecker re-confirms a bearer token against the identity provider or
// the business API. A nil return means the token is still honored. An error
// wrapping ErrTokenRejected means explicit rejection; any other error is a
// connectivity failure and must not invalidate the session.
type RemoteChecker interface {
	Check(ctx context.Context, token string) error
}

// Validator enforces the session state machine: local inactivity timeout
// first, then a throttled remote re-check. Network failures fail open; only
// explicit rejection downgrades a session, which distinguishes connectivity
// loss from credential loss.
type Validator struct {
	manager *Manager
	checker RemoteChecker
	cfg     Config
	log     *slog.Logger
}

// NewValidator creates a validator. checker may be nil, in which case remote
// re-checks are skipped entirely (local policy only). A nil logger is
// replaced with a discard logger.
func NewValidator(manager *Manager, checker RemoteChecker, cfg Config, log *slog.Logger) *Validator {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Validator{
		manager: manager,
		checker: checker,
		cfg:     cfg,
		log:     log.With(logger.Component("session.validator")),
	}
}

// Validate runs the state machine for the record stored under id and returns
// the resulting state plus the (possibly re-stamped) record. On either
// expired state the stored record is deleted, so the identifier cannot be
// replayed and the next interaction starts anonymous.
func (v *Validator) Validate(ctx context.Context, id ID, rec Record) (State, Record) {
	if !rec.Authenticated() || rec.IsExpired() {
		return StateUnvalidated, rec
	}

	if time.Since(rec.LoginAt) > v.cfg.IdleTimeout {
		v.log.InfoContext(ctx, "session expired by inactivity timeout",
			logger.SessionID(string(id)), logger.UserEmail(rec.User.Email))
		v.expire(ctx, id)
		return StateExpiredTimeout, rec
	}

	// Development bypass tokens are valid until timeout, never re-checked.
	if rec.IsDev(v.cfg.DevTokenPrefix) {
		return StateValid, rec
	}

	if v.checker == nil {
		return StateValid, rec
	}

	// Throttle: trust the last confirmed check for RecheckInterval.
	if !rec.ValidatedAt.IsZero() && time.Since(rec.ValidatedAt) < v.cfg.RecheckInterval {
		return StateValid, rec
	}

	checkCtx, cancel := context.WithTimeout(ctx, v.cfg.RecheckTimeout)
	defer cancel()

	switch err := v.checker.Check(checkCtx, rec.Token); {
	case err == nil:
		return StateValid, v.manager.MarkValidated(ctx, id, rec)

	case errors.Is(err, ErrTokenRejected):
		v.log.WarnContext(ctx, "session rejected by remote validation",
			logger.SessionID(string(id)), logger.UserEmail(rec.User.Email))
		v.expire(ctx, id)
		return StateExpiredRemote, rec

	default:
		// Connectivity failure: fail open, retry on the next due cycle.
		// ValidatedAt is deliberately not advanced.
		v.log.WarnContext(ctx, "remote validation unreachable, keeping session",
			logger.Error(err), logger.SessionID(string(id)))
		return StateValid, rec
	}
}

func (v *Validator) expire(ctx context.Context, id ID) {
	if err := v.manager.Delete(ctx, id); err != nil {
		v.log.WarnContext(ctx, "failed to delete invalidated session",
			logger.Error(err), logger.SessionID(string(id)))
	}
}
