package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "test.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	t.Run("GetMissingKey", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "auth_token", "tok-1"))

		val, err := store.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", val)
	})

	t.Run("SetReplaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "auth_token", "tok-2"))

		val, err := store.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, "tok-2", val)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "auth_token"))
		_, err := store.Get(ctx, "auth_token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteMissingKey", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})
}

func TestLocalStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "auth_token", "survives"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	val, err := reopened.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "survives", val)
}
