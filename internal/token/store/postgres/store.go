package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"landledger/internal/token"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
	txcontext "landledger/pkg/platform/tx"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *token.Token) error {
	query := `
		INSERT INTO tokens (
			address, property_id, name, symbol, location, valuation, area, status,
			total_supply, owner_allocation, platform_fee, public_sale, issued_at, sequence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		t.Address, t.PropertyID, t.Name, t.Symbol, t.Location, t.Valuation, int64(t.Area), string(t.Status),
		t.TotalSupply, t.OwnerAllocation, t.PlatformFee, t.PublicSale, t.IssuedAt, int64(t.Sequence),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *Store) FindByAddress(ctx context.Context, addr domain.Address) (*token.Token, error) {
	query := `
		SELECT address, property_id, name, symbol, location, valuation, area, status,
			total_supply, owner_allocation, platform_fee, public_sale, issued_at, sequence
		FROM tokens
		WHERE address = $1
	`
	var (
		t        token.Token
		status   string
		area     int64
		sequence int64
	)
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, addr).Scan(
		&t.Address, &t.PropertyID, &t.Name, &t.Symbol, &t.Location, &t.Valuation, &area, &status,
		&t.TotalSupply, &t.OwnerAllocation, &t.PlatformFee, &t.PublicSale, &t.IssuedAt, &sequence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	t.Status = token.Status(status)
	t.Area = uint64(area)
	t.Sequence = uint64(sequence)
	return &t, nil
}

func (s *Store) UpdateStatus(ctx context.Context, addr domain.Address, status token.Status) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `UPDATE tokens SET status = $1 WHERE address = $2`, string(status), addr)
	if err != nil {
		return fmt.Errorf("update token status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) AddExempt(ctx context.Context, addr, holder domain.Address) error {
	query := `
		INSERT INTO token_exemptions (token, holder)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, addr, holder); err != nil {
		return fmt.Errorf("insert exemption: %w", err)
	}
	return nil
}

func (s *Store) IsExempt(ctx context.Context, addr, holder domain.Address) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM token_exemptions WHERE token = $1 AND holder = $2)`
	if err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, addr, holder).Scan(&exists); err != nil {
		return false, fmt.Errorf("query exemption: %w", err)
	}
	return exists, nil
}
