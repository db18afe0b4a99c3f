package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate runs a goose command (up, down, status, redo, version, ...)
// against the embedded SQL migrations.
func Migrate(ctx context.Context, sqlDB *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("Running database migrations", logger.Fields{"command": command})
	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		logger.Error("Failed to run migrations", err, logger.Fields{"command": command})
		return fmt.Errorf("goose %s: %w", command, err)
	}
	logger.Info("Database migrations completed successfully", logger.Fields{"command": command})
	return nil
}

// MigrateUp applies every pending migration on the global connection
func MigrateUp(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return Migrate(ctx, sqlDB, "up")
}
