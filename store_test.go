package authgate_test

import (
	"context"
	"testing"
	"time"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()

		revoked, err := store.IsRevoked(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoke then lookup", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()

		require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()
		expiry := time.Now().Add(time.Hour)

		require.NoError(t, store.Revoke(ctx, "jti-1", expiry))
		require.NoError(t, store.Revoke(ctx, "jti-1", expiry.Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("sweep removes only expired entries", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()
		now := time.Now()

		require.NoError(t, store.Revoke(ctx, "stale", now.Add(-time.Minute)))
		require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))

		removed, err := store.SweepExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		revoked, err := store.IsRevoked(ctx, "stale")
		require.NoError(t, err)
		assert.False(t, revoked)

		revoked, err = store.IsRevoked(ctx, "live")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("entry expiring exactly at now survives the sweep", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()
		now := time.Now()

		require.NoError(t, store.Revoke(ctx, "boundary", now))

		removed, err := store.SweepExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)

		revoked, err := store.IsRevoked(ctx, "boundary")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("honors cancelled contexts", func(t *testing.T) {
		store := authgate.NewMemoryCredentialStore()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.IsRevoked(cancelled, "jti-1")
		assert.ErrorIs(t, err, context.Canceled)

		err = store.Revoke(cancelled, "jti-1", time.Now())
		assert.ErrorIs(t, err, context.Canceled)

		_, err = store.SweepExpired(cancelled, time.Now())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
