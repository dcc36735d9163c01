package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
)

// Manager wraps a Store with identifier validation, expiry double-checking,
// and a rate-limited sweep. It is the only way the rest of the application
// touches session persistence.
type Manager struct {
	store Store
	cfg   Config
	log   *slog.Logger

	lastSweep atomic.Int64 // unix nanos of the last sweep
}

// NewManager creates a session manager. A nil logger is replaced with a
// discard logger.
func NewManager(store Store, cfg Config, log *slog.Logger) *Manager {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Manager{
		store: store,
		cfg:   cfg,
		log:   log.With(logger.Component("session")),
	}
}

// Get retrieves the record stored under id. Expired records are deleted and
// reported as ErrNotFound, so callers only ever see live records or absence.
func (m *Manager) Get(ctx context.Context, id ID) (Record, error) {
	if !id.Valid() {
		return Record{}, ErrInvalidID
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	// Backends already drop expired entries on read; this double check covers
	// records that expired between the backend read and now.
	if rec.IsExpired() {
		if err := m.store.Delete(ctx, id); err != nil {
			m.log.WarnContext(ctx, "failed to delete expired session", logger.Error(err), logger.SessionID(string(id)))
		}
		return Record{}, ErrNotFound
	}

	return rec, nil
}

// Put stores rec under id, overwriting any previous record.
func (m *Manager) Put(ctx context.Context, id ID, rec Record) error {
	if !id.Valid() {
		return ErrInvalidID
	}
	if !rec.Authenticated() {
		return ErrMissingToken
	}

	if err := m.store.Put(ctx, id, rec); err != nil {
		return errors.Join(ErrSaveRecord, err)
	}
	return nil
}

// Delete removes the record stored under id. Idempotent.
func (m *Manager) Delete(ctx context.Context, id ID) error {
	if !id.Valid() {
		return ErrInvalidID
	}

	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteRecord, err)
	}
	return nil
}

// MarkValidated persists a fresh ValidatedAt stamp for id. Failures are
// logged, not returned: a missed stamp only means the next interaction
// re-checks earlier than strictly needed.
func (m *Manager) MarkValidated(ctx context.Context, id ID, rec Record) Record {
	rec.ValidatedAt = time.Now()
	if err := m.Put(ctx, id, rec); err != nil {
		m.log.WarnContext(ctx, "failed to persist validation stamp", logger.Error(err), logger.SessionID(string(id)))
	}
	return rec
}

// MaybeSweep runs Sweep if SweepInterval has elapsed since the last run.
// Designed to be called once per interaction from the request path; the
// atomic stamp makes concurrent callers race harmlessly (at most one sweeps).
func (m *Manager) MaybeSweep(ctx context.Context) {
	if m.cfg.SweepInterval <= 0 {
		return
	}

	now := time.Now().UnixNano()
	last := m.lastSweep.Load()
	if now-last < int64(m.cfg.SweepInterval) {
		return
	}
	if !m.lastSweep.CompareAndSwap(last, now) {
		return // another interaction took the slot
	}

	n, err := m.store.Sweep(ctx)
	if err != nil {
		m.log.WarnContext(ctx, "session sweep failed", logger.Error(err))
		return
	}
	if n > 0 {
		m.log.InfoContext(ctx, "swept expired sessions", slog.Int64("deleted", n))
	}
}

// TTL returns the configured retention window.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}
