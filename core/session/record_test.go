package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/core/session"
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

func TestNewID(t *testing.T) {
	t.Parallel()

	t.Run("generates valid identifiers", func(t *testing.T) {
		t.Parallel()
		id, err := session.NewID()
		require.NoError(t, err)
		assert.True(t, id.Valid())
		assert.Len(t, string(id), 43)
	})

	t.Run("identifiers are unique", func(t *testing.T) {
		t.Parallel()
		seen := make(map[session.ID]struct{})
		for i := 0; i < 100; i++ {
			id, err := session.NewID()
			require.NoError(t, err)
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
	})
}

func TestID_Valid(t *testing.T) {
	t.Parallel()

	valid, err := session.NewID()
	require.NoError(t, err)

	cases := []struct {
		name string
		id   session.ID
		want bool
	}{
		{"generated id", valid, true},
		{"empty", "", false},
		{"too short", "abc", false},
		{"path traversal", session.ID("../../../../../etc/passwd" + "aaaaaaaaaaaaaaaaa"), false},
		{"slash in id", session.ID("aaaaaaaaaaaaaaaaaaaaa/aaaaaaaaaaaaaaaaaaaaa"), false},
		{"dot in id", session.ID("aaaaaaaaaaaaaaaaaaaaa.aaaaaaaaaaaaaaaaaaaaa"), false},
		{"standard base64 padding", session.ID("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa="), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.id.Valid())
		})
	}
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	t.Run("fresh record", func(t *testing.T) {
		t.Parallel()
		rec, err := session.NewRecord("tok-123", testClaims(), time.Hour)
		require.NoError(t, err)

		assert.Equal(t, "tok-123", rec.Token)
		assert.Equal(t, "ana@example.com", rec.User.Email)
		assert.False(t, rec.IsExpired())
		assert.True(t, rec.Authenticated())
		assert.WithinDuration(t, rec.CreatedAt, rec.LoginAt, time.Second)
		assert.WithinDuration(t, rec.CreatedAt.Add(time.Hour), rec.ExpiresAt, time.Second)
		assert.True(t, rec.ValidatedAt.IsZero())
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		_, err := session.NewRecord("", testClaims(), time.Hour)
		assert.ErrorIs(t, err, session.ErrMissingToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		claims := testClaims()
		claims.Role = "superuser"
		_, err := session.NewRecord("tok-123", claims, time.Hour)
		assert.ErrorIs(t, err, session.ErrInvalidRole)
	})

	t.Run("negative ttl already expired", func(t *testing.T) {
		t.Parallel()
		rec, err := session.NewRecord("tok-123", testClaims(), -time.Minute)
		require.NoError(t, err)
		assert.True(t, rec.IsExpired())
	})
}

func TestRecord_IsDev(t *testing.T) {
	t.Parallel()

	rec, err := session.NewRecord("dev-mock-token-admin", testClaims(), time.Hour)
	require.NoError(t, err)

	assert.True(t, rec.IsDev("dev-mock-"))
	assert.False(t, rec.IsDev("other-prefix-"))
	assert.False(t, rec.IsDev(""))
}

func TestRole_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, session.RoleAdmin.Valid())
	assert.True(t, session.RoleTrainer.Valid())
	assert.True(t, session.RoleTrainee.Valid())
	assert.False(t, session.Role("").Valid())
	assert.False(t, session.Role("root").Valid())
}
