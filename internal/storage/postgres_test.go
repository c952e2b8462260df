package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	readSQL   = `SELECT value FROM client_state WHERE key = $1`
	deleteSQL = `DELETE FROM client_state WHERE key = $1`
	writeSQL  = `
		INSERT INTO client_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	keysSQL = `
		SELECT key FROM client_state
		WHERE $1 = '' OR strpos(key, $1) = 1
		ORDER BY key
	`
)

func setupPostgresStoreMocks(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare(regexp.QuoteMeta(readSQL)).WillReturnCloseError(nil)
	mock.ExpectPrepare(regexp.QuoteMeta(writeSQL)).WillReturnCloseError(nil)
	mock.ExpectPrepare(regexp.QuoteMeta(deleteSQL)).WillReturnCloseError(nil)
	mock.ExpectPrepare(regexp.QuoteMeta(keysSQL)).WillReturnCloseError(nil)
}

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	setupPostgresStoreMocks(mock)

	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	return store, mock, db
}

func TestNewPostgresStore(t *testing.T) {
	t.Run("successful_creation", func(t *testing.T) {
		store, mock, db := newMockPostgresStore(t)
		defer db.Close()

		assert.NotNil(t, store)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails_when_prepare_read_fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPrepare(regexp.QuoteMeta(readSQL)).WillReturnError(errors.New("prepare failed"))

		store, err := NewPostgresStore(db)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "failed to prepare read statement")
	})
}

func TestPostgresStore_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store, mock, db := newMockPostgresStore(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(readSQL)).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("abc")))

		got, err := store.Read(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_maps_to_not_found", func(t *testing.T) {
		store, mock, db := newMockPostgresStore(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(readSQL)).
			WithArgs("token").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Read(ctx, "token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("database_error", func(t *testing.T) {
		store, mock, db := newMockPostgresStore(t)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(readSQL)).
			WithArgs("token").
			WillReturnError(errors.New("connection reset"))

		_, err := store.Read(ctx, "token")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestPostgresStore_WriteDelete(t *testing.T) {
	ctx := context.Background()
	store, mock, db := newMockPostgresStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(writeSQL)).
		WithArgs("user", []byte(`{"id":"1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs("user").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Write(ctx, "user", []byte(`{"id":"1"}`)))
	require.NoError(t, store.Delete(ctx, "user"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Keys(t *testing.T) {
	store, mock, db := newMockPostgresStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(keysSQL)).
		WithArgs("cards-marketplace:").
		WillReturnRows(sqlmock.NewRows([]string{"key"}).
			AddRow("cards-marketplace:feed").
			AddRow("cards-marketplace:my-cards"))

	keys, err := store.Keys(context.Background(), "cards-marketplace:")
	require.NoError(t, err)
	assert.Equal(t, []string{"cards-marketplace:feed", "cards-marketplace:my-cards"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
