// Package postgres opens the ledger database and applies the embedded schema.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"

	"landledger/internal/platform/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationTable = "landledger_migrations"

// Open connects with lib/pq and verifies the connection.
func Open(ctx context.Context, cfg config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(db *sql.DB, logger *slog.Logger) (int, error) {
	ms := migrate.MigrationSet{TableName: migrationTable}
	source := &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationFS, Root: "migrations"}
	n, err := ms.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("apply migrations: %w", err)
	}
	if n > 0 {
		logger.Info("applied database migrations", "count", n)
	}
	return n, nil
}
