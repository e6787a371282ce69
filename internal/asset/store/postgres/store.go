package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"landledger/pkg/domain"
	txcontext "landledger/pkg/platform/tx"
)

// Store persists the asset ledger in Postgres. Amounts are NUMERIC(20,0).
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Balance(ctx context.Context, asset, holder domain.Address) (domain.Amount, error) {
	return s.amount(ctx, `SELECT amount FROM asset_balances WHERE asset = $1 AND holder = $2`, asset, holder)
}

func (s *Store) SetBalance(ctx context.Context, asset, holder domain.Address, amount domain.Amount) error {
	query := `
		INSERT INTO asset_balances (asset, holder, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset, holder) DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, asset, holder, amount); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

func (s *Store) Allowance(ctx context.Context, asset, owner, spender domain.Address) (domain.Amount, error) {
	return s.amount(ctx, `SELECT amount FROM asset_allowances WHERE asset = $1 AND owner = $2 AND spender = $3`, asset, owner, spender)
}

func (s *Store) SetAllowance(ctx context.Context, asset, owner, spender domain.Address, amount domain.Amount) error {
	query := `
		INSERT INTO asset_allowances (asset, owner, spender, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (asset, owner, spender) DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, asset, owner, spender, amount); err != nil {
		return fmt.Errorf("upsert allowance: %w", err)
	}
	return nil
}

func (s *Store) Supply(ctx context.Context, asset domain.Address) (domain.Amount, error) {
	return s.amount(ctx, `SELECT total FROM asset_supplies WHERE asset = $1`, asset)
}

func (s *Store) SetSupply(ctx context.Context, asset domain.Address, amount domain.Amount) error {
	query := `
		INSERT INTO asset_supplies (asset, total)
		VALUES ($1, $2)
		ON CONFLICT (asset) DO UPDATE SET total = EXCLUDED.total
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, asset, amount); err != nil {
		return fmt.Errorf("upsert supply: %w", err)
	}
	return nil
}

func (s *Store) amount(ctx context.Context, query string, args ...any) (domain.Amount, error) {
	var a domain.Amount
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&a)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query amount: %w", err)
	}
	return a, nil
}
