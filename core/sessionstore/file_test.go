package sessionstore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessionstore"
)

func testClaims() session.Claims {
	return session.Claims{
		UserID:   "user-42",
		Name:     "Ana Silva",
		Email:    "ana@example.com",
		Role:     session.RoleTrainer,
		TenantID: 7,
	}
}

func mustID(t *testing.T) session.ID {
	t.Helper()
	id, err := session.NewID()
	require.NoError(t, err)
	return id
}

func mustRecord(t *testing.T, token string, ttl time.Duration) session.Record {
	t.Helper()
	rec, err := session.NewRecord(token, testClaims(), ttl)
	require.NoError(t, err)
	return rec
}

func newFileStore(t *testing.T) *sessionstore.File {
	t.Helper()
	store, err := sessionstore.NewFile(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestFile_New(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "sessions")
		_, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty directory rejected", func(t *testing.T) {
		t.Parallel()
		_, err := sessionstore.NewFile("", nil)
		assert.Error(t, err)
	})
}

func TestFile_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()
		store := newFileStore(t)
		id := mustID(t)
		rec := mustRecord(t, "tok-123", time.Hour)

		require.NoError(t, store.Put(ctx, id, rec))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, rec.Token, got.Token)
		assert.Equal(t, rec.User, got.User)
		assert.WithinDuration(t, rec.ExpiresAt, got.ExpiresAt, time.Second)
	})

	t.Run("missing record", func(t *testing.T) {
		t.Parallel()
		store := newFileStore(t)
		_, err := store.Get(ctx, mustID(t))
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("invalid id never touches the filesystem", func(t *testing.T) {
		t.Parallel()
		store := newFileStore(t)

		_, err := store.Get(ctx, "../../../etc/passwd")
		assert.ErrorIs(t, err, session.ErrInvalidID)

		err = store.Put(ctx, "../escape", mustRecord(t, "tok-123", time.Hour))
		assert.ErrorIs(t, err, session.ErrInvalidID)
	})

	t.Run("overwrite replaces record", func(t *testing.T) {
		t.Parallel()
		store := newFileStore(t)
		id := mustID(t)

		require.NoError(t, store.Put(ctx, id, mustRecord(t, "tok-first", time.Hour)))
		require.NoError(t, store.Put(ctx, id, mustRecord(t, "tok-second", time.Hour)))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "tok-second", got.Token)
	})

	t.Run("expired record deleted on read", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)
		id := mustID(t)

		rec := mustRecord(t, "tok-123", time.Hour)
		rec.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, id, rec))

		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.NoFileExists(t, filepath.Join(dir, string(id)+".json"))
	})

	t.Run("record files are owner-only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)
		id := mustID(t)

		require.NoError(t, store.Put(ctx, id, mustRecord(t, "tok-123", time.Hour)))

		info, err := os.Stat(filepath.Join(dir, string(id)+".json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestFile_Corruption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("corrupted file deleted, others untouched", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)

		good, bad := mustID(t), mustID(t)
		require.NoError(t, store.Put(ctx, good, mustRecord(t, "tok-good", time.Hour)))
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(bad)+".json"), []byte("{not json"), 0o600))

		_, err = store.Get(ctx, bad)
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.NoFileExists(t, filepath.Join(dir, string(bad)+".json"))

		got, err := store.Get(ctx, good)
		require.NoError(t, err)
		assert.Equal(t, "tok-good", got.Token)
	})

	t.Run("valid json without token treated as corrupt", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)
		id := mustID(t)

		require.NoError(t, os.WriteFile(filepath.Join(dir, string(id)+".json"), []byte(`{"user":{}}`), 0o600))

		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.NoFileExists(t, filepath.Join(dir, string(id)+".json"))
	})
}

func TestFile_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFileStore(t)
	id := mustID(t)

	require.NoError(t, store.Put(ctx, id, mustRecord(t, "tok-123", time.Hour)))
	require.NoError(t, store.Delete(ctx, id))

	_, err := store.Get(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Idempotent.
	assert.NoError(t, store.Delete(ctx, id))
}

func TestFile_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes expired and corrupt, keeps live", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)

		live, dead, bad := mustID(t), mustID(t), mustID(t)
		require.NoError(t, store.Put(ctx, live, mustRecord(t, "tok-live", time.Hour)))

		expired := mustRecord(t, "tok-dead", time.Hour)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, dead, expired))

		require.NoError(t, os.WriteFile(filepath.Join(dir, string(bad)+".json"), []byte("garbage"), 0o600))

		deleted, err := store.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		_, err = store.Get(ctx, live)
		assert.NoError(t, err)
	})

	t.Run("ignores unrelated files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := sessionstore.NewFile(dir, nil)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("notes"), 0o600))

		deleted, err := store.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.FileExists(t, filepath.Join(dir, "README.txt"))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()
		store := newFileStore(t)
		require.NoError(t, store.Put(context.Background(), mustID(t), mustRecord(t, "tok-123", time.Hour)))

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Sweep(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFile_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFileStore(t)
	id := mustID(t)
	require.NoError(t, store.Put(ctx, id, mustRecord(t, "tok-0", time.Hour)))

	// Concurrent writers and readers on one identifier: every read must see a
	// complete record, never a torn write.
	fresh := mustRecord(t, "tok-w", time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, id, fresh)
		}()
		go func() {
			defer wg.Done()
			rec, err := store.Get(ctx, id)
			if err == nil {
				assert.True(t, rec.Authenticated())
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Authenticated())
}
