package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_posts",
		SQL: `CREATE TABLE IF NOT EXISTS posts (
  id           TEXT        PRIMARY KEY,
  title        TEXT        NOT NULL DEFAULT '',
  date         TEXT        NOT NULL DEFAULT '',
  image_path   TEXT,
  alt_text     TEXT,
  content_html TEXT,
  content      TEXT,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_posts_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_title ON posts (title);`,
	},
}

// EnsureMigrated creates the posts table when it does not exist yet.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.posts') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("check posts table: %w", err)
	}
	if exists {
		logger.Debug("posts table present, skipping migration")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("migration step %s: %w", step.Name, err)
		}
		logger.Info("migration step applied", zap.String("step", step.Name))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	logger.Info("posts migration complete", zap.Duration("took", time.Since(start)))
	return nil
}
