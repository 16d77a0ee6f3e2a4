package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	db, err := New(Config{Path: path, Name: "history"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.Equal(t, "history", db.Name())
	assert.Equal(t, ProfileStandard, db.Profile())
	assert.NoError(t, db.QuickCheck(context.Background()))
}

func TestMigrate_HistorySchema(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "history.db"), Profile: ProfileLedger, Name: "history"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	// Idempotent
	require.NoError(t, db.Migrate())

	var name string
	err = db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "runs", name)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "scratch.db"), Name: "scratch"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "tx.db"), Name: "tx"})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Conn().Exec("CREATE TABLE items (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM items").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO items (id) VALUES (1)")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on error", func(t *testing.T) {
		cause := errors.New("boom")
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			if _, err := tx.Exec("INSERT INTO items (id) VALUES (2)"); err != nil {
				return err
			}
			return cause
		})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			_, _ = tx.Exec("INSERT INTO items (id) VALUES (3)")
			panic("unexpected")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
		assert.Equal(t, 1, count())
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
	})
}
