package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"blueblog/internal/config"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubSQLOpen(t *testing.T, db *sql.DB, openErr error) {
	t.Helper()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) {
		if openErr != nil {
			return nil, openErr
		}
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })
}

func TestOpenDB(t *testing.T) {
	conf := config.DatabaseConfig{
		DSN:                "postgres://cat@localhost:5432/blog?sslmode=disable",
		MaxOpenConns:       4,
		MaxIdleConns:       2,
		ConnMaxLifetimeSec: 60,
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		stubSQLOpen(t, db, nil)

		mock.ExpectPing()

		got, err := OpenDB(context.Background(), conf)
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open error", func(t *testing.T) {
		stubSQLOpen(t, nil, errors.New("open error"))

		got, err := OpenDB(context.Background(), conf)
		assert.ErrorContains(t, err, "sql open: open error")
		assert.Nil(t, got)
	})

	t.Run("ping error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubSQLOpen(t, db, nil)

		mock.ExpectPing().WillReturnError(errors.New("ping failed"))

		got, err := OpenDB(context.Background(), conf)
		assert.ErrorContains(t, err, "db ping: ping failed")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing dsn", func(t *testing.T) {
		got, err := OpenDB(context.Background(), config.DatabaseConfig{})
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestEnsureMigrated(t *testing.T) {
	t.Run("table exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, EnsureMigrated(context.Background(), db, zap.NewNop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS posts").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_posts_title").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, EnsureMigrated(context.Background(), db, zap.NewNop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS posts").WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = EnsureMigrated(context.Background(), db, zap.NewNop())
		assert.ErrorContains(t, err, "create_table_posts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
