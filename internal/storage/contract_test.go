package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("read_missing_key", func(t *testing.T) {
		_, err := store.Read(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("write_then_read", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, "token", []byte("abc")))

		got, err := store.Read(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("write_overwrites", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, "user", []byte(`{"id":"1"}`)))
		require.NoError(t, store.Write(ctx, "user", []byte(`{"id":"2"}`)))

		got, err := store.Read(ctx, "user")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"2"}`, string(got))
	})

	t.Run("delete_is_idempotent", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, "gone", []byte("x")))
		require.NoError(t, store.Delete(ctx, "gone"))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, err := store.Read(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("keys_by_prefix", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, "cards-marketplace:my-cards", []byte("1")))
		require.NoError(t, store.Write(ctx, "cards-marketplace:feed", []byte("2")))
		require.NoError(t, store.Write(ctx, "other:my-cards", []byte("3")))

		keys, err := store.Keys(ctx, "cards-marketplace:")
		require.NoError(t, err)
		assert.Equal(t, []string{"cards-marketplace:feed", "cards-marketplace:my-cards"}, keys)

		all, err := store.Keys(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, all, "other:my-cards")
		assert.Contains(t, all, "token")
	})

	t.Run("keys_with_no_match", func(t *testing.T) {
		keys, err := store.Keys(ctx, "nothing-here:")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}
