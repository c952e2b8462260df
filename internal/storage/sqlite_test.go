package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, "token", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Read(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
	assert.NoError(t, reopened.Ping(ctx))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	store, err := OpenSQLite("  ")
	require.Error(t, err)
	assert.Nil(t, store)
}
