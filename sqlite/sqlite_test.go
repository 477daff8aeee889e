package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docchat/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		for _, table := range []string{"manifest", "documents", "chunks"} {
			var n int
			err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
			require.NoError(t, err, table)
		}
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		var journalMode string
		err = db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("read-only open rejects a database without the index schema", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "other.db")
		rw := sqlite.NewDB(path)
		require.NoError(t, rw.Open())
		_, err := rw.ExecContext(context.Background(), "DROP TABLE chunks")
		require.NoError(t, err)
		_, err = rw.ExecContext(context.Background(), "PRAGMA journal_mode = DELETE")
		require.NoError(t, err)
		require.NoError(t, rw.Close())

		ro := sqlite.NewDB(path, sqlite.WithReadOnly())
		err = ro.Open()

		require.ErrorContains(t, err, "no chunks table")
	})
}
