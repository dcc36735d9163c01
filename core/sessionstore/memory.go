package sessionstore

import (
	"context"
	"sync"

	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Memory is a mutex-guarded in-process session store. Sessions do not survive
// a restart, so it suits development and tests only; production uses the file
// backend (or Redis/Postgres when scaling horizontally).
type Memory struct {
	mu      sync.RWMutex
	records map[session.ID]session.Record
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{records: make(map[session.ID]session.Record)}
}

// Put implements session.Store.
func (s *Memory) Put(ctx context.Context, id session.ID, rec session.Record) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
	return nil
}

// Get implements session.Store.
func (s *Memory) Get(ctx context.Context, id session.ID) (session.Record, error) {
	if !id.Valid() {
		return session.Record{}, session.ErrInvalidID
	}

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return session.Record{}, session.ErrNotFound
	}

	if rec.IsExpired() {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if current, ok := s.records[id]; ok && current.IsExpired() {
			delete(s.records, id)
		}
		s.mu.Unlock()
		return session.Record{}, session.ErrNotFound
	}

	return rec, nil
}

// Delete implements session.Store. Idempotent.
func (s *Memory) Delete(ctx context.Context, id session.ID) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Sweep implements session.Store.
func (s *Memory) Sweep(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rec := range s.records {
		if rec.IsExpired() {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports the number of stored records. Test helper.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
