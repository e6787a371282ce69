//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"landledger/internal/platform/postgres"
)

// PostgresContainer is a Postgres instance with the ledger schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and runs the embedded migrations.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("landledger"),
		tcpostgres.WithUsername("landledger"),
		tcpostgres.WithPassword("landledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := postgres.Migrate(db, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables empties the named tables. Use between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	_, err := p.DB.ExecContext(ctx, stmt)
	return err
}

// LedgerTables lists the tables that hold ledger state. The seeded
// registry_nonce row is left alone; ResetLedger rewinds it.
var LedgerTables = []string{
	"asset_balances", "asset_allowances", "asset_supplies", "outbox",
	"stakes", "properties", "registry_verifiers",
	"tokens", "token_exemptions", "factory_tokens", "sales", "purchases",
}

// ResetLedger empties every ledger table and rewinds the property nonce.
func (p *PostgresContainer) ResetLedger(ctx context.Context) error {
	if err := p.TruncateTables(ctx, LedgerTables...); err != nil {
		return err
	}
	_, err := p.DB.ExecContext(ctx, `UPDATE registry_nonce SET value = 0 WHERE id = 1`)
	return err
}
