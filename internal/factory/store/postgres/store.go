package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
	txcontext "landledger/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Store keeps the issuance log in factory_tokens; position is the zero-based
// creation index.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, propertyID domain.PropertyID, tokenAddr domain.Address) error {
	query := `
		INSERT INTO factory_tokens (position, property_id, token_address)
		SELECT COUNT(*), $1, $2 FROM factory_tokens
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, propertyID, tokenAddr); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert factory token: %w", err)
	}
	return nil
}

func (s *Store) TokenForProperty(ctx context.Context, propertyID domain.PropertyID) (domain.Address, error) {
	var a domain.Address
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT token_address FROM factory_tokens WHERE property_id = $1`, propertyID).Scan(&a)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ZeroAddress, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("find factory token: %w", err)
	}
	return a, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Address, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT token_address FROM factory_tokens ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list factory tokens: %w", err)
	}
	defer rows.Close()

	out := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan factory token: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) At(ctx context.Context, index uint64) (domain.Address, error) {
	var a domain.Address
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT token_address FROM factory_tokens WHERE position = $1`, int64(index)).Scan(&a)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ZeroAddress, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("find factory token: %w", err)
	}
	return a, nil
}

func (s *Store) Count(ctx context.Context) (uint64, error) {
	var n int64
	if err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM factory_tokens`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count factory tokens: %w", err)
	}
	return uint64(n), nil
}
