package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"landledger/internal/market/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
	txcontext "landledger/pkg/platform/tx"
)

const saleColumns = `
	token, tokens_for_sale, tokens_sold, price_per_token, proceeds,
	start_time, end_time, beneficiary, active, finalized`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindSale(ctx context.Context, token domain.Address) (*models.Sale, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE token = $1`, token)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return sale, nil
}

func (s *Store) SaveSale(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (token) DO UPDATE SET
			tokens_for_sale = EXCLUDED.tokens_for_sale,
			tokens_sold = EXCLUDED.tokens_sold,
			price_per_token = EXCLUDED.price_per_token,
			proceeds = EXCLUDED.proceeds,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			beneficiary = EXCLUDED.beneficiary,
			active = EXCLUDED.active,
			finalized = EXCLUDED.finalized
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		sale.Token, sale.TokensForSale, sale.TokensSold, sale.PricePerToken, sale.Proceeds,
		sale.StartTime, sale.EndTime, sale.Beneficiary, sale.Active, sale.Finalized,
	)
	if err != nil {
		return fmt.Errorf("upsert sale: %w", err)
	}
	return nil
}

func (s *Store) ListOpenSales(ctx context.Context) ([]models.Sale, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE active AND NOT finalized ORDER BY end_time`)
	if err != nil {
		return nil, fmt.Errorf("list open sales: %w", err)
	}
	defer rows.Close()

	var out []models.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, *sale)
	}
	return out, rows.Err()
}

func (s *Store) Purchased(ctx context.Context, token, buyer domain.Address) (domain.Amount, error) {
	var amount domain.Amount
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT amount FROM purchases WHERE token = $1 AND buyer = $2`, token, buyer).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find purchase: %w", err)
	}
	return amount, nil
}

func (s *Store) SetPurchased(ctx context.Context, token, buyer domain.Address, amount domain.Amount) error {
	query := `
		INSERT INTO purchases (token, buyer, amount) VALUES ($1, $2, $3)
		ON CONFLICT (token, buyer) DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, token, buyer, amount); err != nil {
		return fmt.Errorf("upsert purchase: %w", err)
	}
	return nil
}

func (s *Store) ClearPurchases(ctx context.Context, token domain.Address) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM purchases WHERE token = $1`, token); err != nil {
		return fmt.Errorf("clear purchases: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSale(row scanner) (*models.Sale, error) {
	var sale models.Sale
	err := row.Scan(
		&sale.Token, &sale.TokensForSale, &sale.TokensSold, &sale.PricePerToken, &sale.Proceeds,
		&sale.StartTime, &sale.EndTime, &sale.Beneficiary, &sale.Active, &sale.Finalized,
	)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
