package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/pranchal07/heal/internal/repository/migrations"
)

// goose seams, replaced in tests.
var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

func prepareGoose() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("pgx")
}

// EnsureSchema creates the submissions table and its recency index if they are
// absent. Running it against an up-to-date database is a no-op.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	slog.InfoContext(ctx, "database schema initialized")
	return nil
}

// RollbackSchema reverts the most recent migration.
func RollbackSchema(ctx context.Context, db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("rollback schema: %w", err)
	}
	if err := gooseDownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("rollback schema: %w", err)
	}
	return nil
}

// SchemaStatus logs the applied state of every embedded migration.
func SchemaStatus(ctx context.Context, db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("schema status: %w", err)
	}
	if err := gooseStatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("schema status: %w", err)
	}
	return nil
}
