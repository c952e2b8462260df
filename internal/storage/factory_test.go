package storage

import (
	"context"
	"path/filepath"
	"testing"

	"cards-marketplace/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := New(ctx, config.StorageConfig{Type: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := New(ctx, config.StorageConfig{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &SQLiteStore{}, store)
	})

	t.Run("bad_redis_url", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "redis", RedisURL: "not a url"})
		require.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "etcd"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage type")
	})
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
	assert.Equal(t, "cards-marketplace:", escapeGlob("cards-marketplace:"))
}
