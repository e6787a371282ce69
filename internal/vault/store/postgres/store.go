package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"landledger/internal/vault/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
	txcontext "landledger/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindByOwner(ctx context.Context, owner domain.Address) (*models.Stake, error) {
	query := `SELECT owner, amount, locked, updated_at FROM stakes WHERE owner = $1`
	var stake models.Stake
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, owner).Scan(
		&stake.Owner, &stake.Amount, &stake.Locked, &stake.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stake: %w", err)
	}
	return &stake, nil
}

func (s *Store) Save(ctx context.Context, stake *models.Stake) error {
	query := `
		INSERT INTO stakes (owner, amount, locked, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner) DO UPDATE
		SET amount = EXCLUDED.amount, locked = EXCLUDED.locked, updated_at = EXCLUDED.updated_at
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		stake.Owner, stake.Amount, stake.Locked, stake.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert stake: %w", err)
	}
	return nil
}
