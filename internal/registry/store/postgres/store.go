package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"landledger/internal/registry/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
	txcontext "landledger/pkg/platform/tx"
)

const uniqueViolation = "23505"

const propertyColumns = `
	id, owner, survey_id, location, latitude, longitude, area, document_hash, valuation,
	status, token_address, registered_at, verified_at, stake_amount, stake_outstanding,
	rejection_reason, slash_evidence`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *models.Property) error {
	query := `INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, propertyArgs(p)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id domain.PropertyID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, id))
}

func (s *Store) FindByToken(ctx context.Context, token domain.Address) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE token_address = $1`
	return scanProperty(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, token))
}

func (s *Store) Update(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties
		SET status = $2, token_address = $3, verified_at = $4, stake_outstanding = $5,
			rejection_reason = $6, slash_evidence = $7
		WHERE id = $1
	`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		p.ID, string(p.Status), p.TokenAddress, nullTime(p), p.StakeOutstanding,
		p.RejectionReason, p.SlashEvidence,
	)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, owner domain.Address) ([]domain.PropertyID, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id FROM properties WHERE owner = $1 ORDER BY seq`, owner)
	if err != nil {
		return nil, fmt.Errorf("list owner properties: %w", err)
	}
	defer rows.Close()

	var ids []domain.PropertyID
	for rows.Next() {
		var id domain.PropertyID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NextNonce bumps the single-row counter; the caller's transaction serializes it.
func (s *Store) NextNonce(ctx context.Context) (uint64, error) {
	query := `UPDATE registry_nonce SET value = value + 1 WHERE id = 1 RETURNING value - 1`
	var n int64
	if err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("next nonce: %w", err)
	}
	return uint64(n), nil
}

func (s *Store) AddVerifier(ctx context.Context, v domain.Address) (bool, error) {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO registry_verifiers (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`, v)
	if err != nil {
		return false, fmt.Errorf("insert verifier: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) RemoveVerifier(ctx context.Context, v domain.Address) (bool, error) {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM registry_verifiers WHERE address = $1`, v)
	if err != nil {
		return false, fmt.Errorf("delete verifier: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) IsVerifier(ctx context.Context, v domain.Address) (bool, error) {
	var ok bool
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registry_verifiers WHERE address = $1)`, v).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check verifier: %w", err)
	}
	return ok, nil
}

func (s *Store) ListVerifiers(ctx context.Context) ([]domain.Address, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT address FROM registry_verifiers ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("list verifiers: %w", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan verifier: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func propertyArgs(p *models.Property) []any {
	m := p.Metadata
	return []any{
		p.ID, p.Owner, m.SurveyID, m.Location, m.Latitude, m.Longitude, domain.Amount(m.Area),
		m.DocumentHash, m.Valuation, string(p.Status), p.TokenAddress, p.RegisteredAt, nullTime(p),
		p.StakeAmount, p.StakeOutstanding, p.RejectionReason, p.SlashEvidence,
	}
}

func nullTime(p *models.Property) sql.NullTime {
	return sql.NullTime{Time: p.VerifiedAt, Valid: !p.VerifiedAt.IsZero()}
}

func scanProperty(row *sql.Row) (*models.Property, error) {
	var (
		p          models.Property
		status     string
		area       domain.Amount
		verifiedAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Owner, &p.Metadata.SurveyID, &p.Metadata.Location, &p.Metadata.Latitude,
		&p.Metadata.Longitude, &area, &p.Metadata.DocumentHash, &p.Metadata.Valuation,
		&status, &p.TokenAddress, &p.RegisteredAt, &verifiedAt, &p.StakeAmount, &p.StakeOutstanding,
		&p.RejectionReason, &p.SlashEvidence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan property: %w", err)
	}
	p.Status = models.Status(status)
	p.Metadata.Area = area.Uint64()
	if verifiedAt.Valid {
		p.VerifiedAt = verifiedAt.Time
	}
	return &p, nil
}
