package identity_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/integration/identity"
)

func TestDevProvider_SignInWithPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users, err := identity.DefaultDevUsers()
	require.NoError(t, err)
	provider := identity.NewDevProvider(users...)

	t.Run("admin signs in", func(t *testing.T) {
		t.Parallel()
		token, claims, err := provider.SignInWithPassword(ctx, "admin@pimba.com", "admin")
		require.NoError(t, err)
		assert.Equal(t, "dev-mock-token-admin", token)
		assert.Equal(t, "dev-mock-uid-admin", claims.SubjectID)
	})

	t.Run("trainer signs in", func(t *testing.T) {
		t.Parallel()
		token, _, err := provider.SignInWithPassword(ctx, "personal@pimba.com", "personal")
		require.NoError(t, err)
		assert.Equal(t, "dev-mock-token-personal", token)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		_, _, err := provider.SignInWithPassword(ctx, "nobody@pimba.com", "whatever")
		assert.ErrorIs(t, err, identity.ErrEmailNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, _, err := provider.SignInWithPassword(ctx, "admin@pimba.com", "wrong")
		assert.ErrorIs(t, err, identity.ErrInvalidPassword)
	})

	t.Run("disabled user", func(t *testing.T) {
		t.Parallel()
		disabled, err := identity.NewDevUser("off@pimba.com", "Off", "off", "off")
		require.NoError(t, err)
		disabled.Disabled = true

		p := identity.NewDevProvider(disabled)
		_, _, err = p.SignInWithPassword(ctx, "off@pimba.com", "off")
		assert.ErrorIs(t, err, identity.ErrUserDisabled)
	})
}

func TestDevProvider_VerifyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users, err := identity.DefaultDevUsers()
	require.NoError(t, err)
	provider := identity.NewDevProvider(users...)

	t.Run("issued token verifies", func(t *testing.T) {
		t.Parallel()
		claims, err := provider.VerifyToken(ctx, "dev-mock-token-admin")
		require.NoError(t, err)
		assert.Equal(t, "admin@pimba.com", claims.Email)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		t.Parallel()
		_, err := provider.VerifyToken(ctx, "dev-mock-token-stranger")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}

func TestDevProvider_AddUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := identity.NewDevProvider()

	extra, err := identity.NewDevUser("coach@pimba.com", "Coach", "coach", "coach")
	require.NoError(t, err)
	provider.AddUser(extra)

	token, _, err := provider.SignInWithPassword(ctx, "coach@pimba.com", "coach")
	require.NoError(t, err)
	assert.Equal(t, "dev-mock-token-coach", token)
}

func TestRandomDevToken(t *testing.T) {
	t.Parallel()

	a, b := identity.RandomDevToken(), identity.RandomDevToken()
	assert.True(t, strings.HasPrefix(a, "dev-mock-"))
	assert.NotEqual(t, a, b)
}
