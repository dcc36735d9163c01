package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessionstore"
)

func newTestManager(t *testing.T, cfg session.Config) (*session.Manager, *sessionstore.Memory) {
	t.Helper()
	store := sessionstore.NewMemory()
	return session.NewManager(store, cfg, nil), store
}

func mustID(t *testing.T) session.ID {
	t.Helper()
	id, err := session.NewID()
	require.NoError(t, err)
	return id
}

func TestManager_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())
		id := mustID(t)

		rec, err := session.NewRecord("tok-123", testClaims(), time.Hour)
		require.NoError(t, err)
		require.NoError(t, m.Put(ctx, id, rec))

		got, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, rec.Token, got.Token)
		assert.Equal(t, rec.User, got.User)
	})

	t.Run("missing record", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())

		_, err := m.Get(ctx, mustID(t))
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("invalid id rejected before storage", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())

		_, err := m.Get(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, session.ErrInvalidID)

		err = m.Put(ctx, "bogus", session.Record{Token: "t", User: testClaims()})
		assert.ErrorIs(t, err, session.ErrInvalidID)

		assert.ErrorIs(t, m.Delete(ctx, "bogus"), session.ErrInvalidID)
	})

	t.Run("unauthenticated record rejected", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())

		err := m.Put(ctx, mustID(t), session.Record{})
		assert.ErrorIs(t, err, session.ErrMissingToken)
	})

	t.Run("expired record reported absent and removed", func(t *testing.T) {
		t.Parallel()
		m, store := newTestManager(t, session.DefaultConfig())
		id := mustID(t)

		rec, err := session.NewRecord("tok-123", testClaims(), time.Hour)
		require.NoError(t, err)
		rec.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, id, rec))

		_, err = m.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("login overwrites previous record", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())
		id := mustID(t)

		first, err := session.NewRecord("tok-first", testClaims(), time.Hour)
		require.NoError(t, err)
		require.NoError(t, m.Put(ctx, id, first))

		second, err := session.NewRecord("tok-second", testClaims(), time.Hour)
		require.NoError(t, err)
		require.NoError(t, m.Put(ctx, id, second))

		got, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "tok-second", got.Token)
	})
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes record", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())
		id := mustID(t)

		rec, err := session.NewRecord("tok-123", testClaims(), time.Hour)
		require.NoError(t, err)
		require.NoError(t, m.Put(ctx, id, rec))

		require.NoError(t, m.Delete(ctx, id))
		_, err = m.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("idempotent on absent record", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t, session.DefaultConfig())
		assert.NoError(t, m.Delete(ctx, mustID(t)))
	})
}

func TestManager_MarkValidated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _ := newTestManager(t, session.DefaultConfig())
	id := mustID(t)

	rec, err := session.NewRecord("tok-123", testClaims(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.Put(ctx, id, rec))

	stamped := m.MarkValidated(ctx, id, rec)
	assert.False(t, stamped.ValidatedAt.IsZero())

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.WithinDuration(t, stamped.ValidatedAt, got.ValidatedAt, time.Second)
}

func TestManager_MaybeSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes expired records once per interval", func(t *testing.T) {
		t.Parallel()
		cfg := session.DefaultConfig()
		cfg.SweepInterval = time.Hour
		m, store := newTestManager(t, cfg)

		live, err := session.NewRecord("tok-live", testClaims(), time.Hour)
		require.NoError(t, err)
		dead, err := session.NewRecord("tok-dead", testClaims(), time.Hour)
		require.NoError(t, err)
		dead.ExpiresAt = time.Now().Add(-time.Minute)

		liveID, deadID := mustID(t), mustID(t)
		require.NoError(t, store.Put(ctx, liveID, live))
		require.NoError(t, store.Put(ctx, deadID, dead))

		m.MaybeSweep(ctx)
		assert.Equal(t, 1, store.Len())

		// Second expired record within the same interval stays until the next
		// sweep slot.
		dead2, err := session.NewRecord("tok-dead2", testClaims(), time.Hour)
		require.NoError(t, err)
		dead2.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, mustID(t), dead2))

		m.MaybeSweep(ctx)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("disabled when interval is zero", func(t *testing.T) {
		t.Parallel()
		cfg := session.DefaultConfig()
		cfg.SweepInterval = 0
		m, store := newTestManager(t, cfg)

		dead, err := session.NewRecord("tok-dead", testClaims(), time.Hour)
		require.NoError(t, err)
		dead.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, mustID(t), dead))

		m.MaybeSweep(ctx)
		assert.Equal(t, 1, store.Len())
	})
}
