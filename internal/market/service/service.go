// Package service implements the primary market: a capped, time-boxed sale of
// a token's public tranche at a fixed price, settled to a beneficiary.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"landledger/internal/events"
	"landledger/internal/ledger"
	"landledger/internal/market/metrics"
	"landledger/internal/market/models"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/sentinel"
	"landledger/pkg/requestcontext"
)

// DefaultSaleDuration applies when Config.SaleDuration is zero.
const DefaultSaleDuration = 30 * 24 * time.Hour

// Store persists sales and per-buyer purchase totals. FindSale returns
// sentinel.ErrNotFound for tokens that never had a sale.
type Store interface {
	FindSale(ctx context.Context, token domain.Address) (*models.Sale, error)
	SaveSale(ctx context.Context, sale *models.Sale) error
	ListOpenSales(ctx context.Context) ([]models.Sale, error)
	Purchased(ctx context.Context, token, buyer domain.Address) (domain.Amount, error)
	SetPurchased(ctx context.Context, token, buyer domain.Address, amount domain.Amount) error
	ClearPurchases(ctx context.Context, token domain.Address) error
}

// Tokens moves sale tokens out of market custody.
type Tokens interface {
	Transfer(ctx context.Context, addr, from, to domain.Address, amount domain.Amount) error
	BalanceOf(ctx context.Context, addr, holder domain.Address) (domain.Amount, error)
}

// Payments is the payment asset ledger. Purchases are paid by spending an
// allowance the buyer granted to the market beforehand.
type Payments interface {
	CanSpend(ctx context.Context, asset, spender, from domain.Address, amount domain.Amount) error
	TransferFrom(ctx context.Context, asset, spender, from, to domain.Address, amount domain.Amount) error
}

// LiquiditySeeder receives the unsold tokens and proceeds of a finalized sale.
type LiquiditySeeder interface {
	Seed(ctx context.Context, h models.Handoff) (poolID string, err error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

type Config struct {
	// Address is the market's custody account.
	Address      domain.Address
	Owner        domain.Address
	PaymentAsset domain.Address
	SaleDuration time.Duration
}

// Settlement is what FinalizeSale returns.
type Settlement struct {
	models.Handoff
	PoolID string `json:"pool_id,omitempty"`
}

// Quote prices a prospective purchase.
type Quote struct {
	Amount       domain.Amount `json:"amount"`
	Cost         domain.Amount `json:"cost"`
	Remaining    domain.Amount `json:"remaining"`
	BuyerCap     domain.Amount `json:"buyer_cap"`
	BuyerAllowed domain.Amount `json:"buyer_allowed"`
}

type Service struct {
	store     Store
	tokens    Tokens
	payments  Payments
	tx        ledger.Runner
	cfg       Config
	seeder    LiquiditySeeder
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLiquiditySeeder(seeder LiquiditySeeder) Option {
	return func(s *Service) { s.seeder = seeder }
}

func New(store Store, tokens Tokens, payments Payments, tx ledger.Runner, cfg Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("sale store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment ledger is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	if cfg.Address.IsZero() || cfg.Owner.IsZero() || cfg.PaymentAsset.IsZero() {
		return nil, fmt.Errorf("market, owner and payment asset addresses are required")
	}
	if cfg.SaleDuration <= 0 {
		cfg.SaleDuration = DefaultSaleDuration
	}
	s := &Service{
		store:    store,
		tokens:   tokens,
		payments: payments,
		tx:       tx,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Address is the market's custody account.
func (s *Service) Address() domain.Address { return s.cfg.Address }

// Owner is the principal allowed to start and finalize sales.
func (s *Service) Owner() domain.Address { return s.cfg.Owner }

// StartSale opens a sale of tokensForSale units held by the market.
func (s *Service) StartSale(ctx context.Context, token domain.Address, tokensForSale, price domain.Amount, beneficiary domain.Address) (*models.Sale, error) {
	if err := s.requireOwner(ctx); err != nil {
		return nil, err
	}
	if tokensForSale.IsZero() {
		return nil, dErrors.New(dErrors.CodeZeroAmount, "tokens for sale must be greater than zero")
	}
	if price.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidTokenPrice, "price per token must be greater than zero")
	}
	if beneficiary.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "beneficiary is required")
	}

	var sale *models.Sale
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		prev, err := s.store.FindSale(ctx, token)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sale")
		}
		if prev != nil && prev.Open() {
			return dErrors.New(dErrors.CodeSaleAlreadyActive, "token already has an active sale")
		}
		held, err := s.tokens.BalanceOf(ctx, token, s.cfg.Address)
		if err != nil {
			return err
		}
		if held < tokensForSale {
			return dErrors.New(dErrors.CodeInsufficientMarketBalance, fmt.Sprintf("market holds %s tokens", held))
		}
		if prev != nil {
			if err := s.store.ClearPurchases(ctx, token); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear purchases")
			}
		}
		sale = models.NewSale(token, tokensForSale, price, beneficiary, requestcontext.Now(ctx), s.cfg.SaleDuration)
		if err := s.saveSale(ctx, sale); err != nil {
			return err
		}
		return s.emit(ctx, events.SaleStarted, token, map[string]string{
			"tokens_for_sale": tokensForSale.String(),
			"price_per_token": price.String(),
			"beneficiary":     beneficiary.String(),
			"end_time":        sale.EndTime.UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementStarted()
	return sale, nil
}

// BuyTokens sells amount units to the caller. The cost is pulled from the
// caller's allowance to the market and paid straight to the beneficiary.
func (s *Service) BuyTokens(ctx context.Context, token domain.Address, amount domain.Amount) (*models.Purchase, error) {
	buyer := requestcontext.Caller(ctx)
	if buyer.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is required")
	}

	var (
		purchase *models.Purchase
		cost     domain.Amount
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sale, err := s.loadSale(ctx, token)
		if err != nil {
			return err
		}
		bought, err := s.store.Purchased(ctx, token, buyer)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load purchases")
		}
		if err := sale.CanBuy(requestcontext.Now(ctx), bought, amount); err != nil {
			return err
		}
		cost, err = sale.Cost(amount)
		if err != nil {
			return err
		}
		if err := s.payments.CanSpend(ctx, s.cfg.PaymentAsset, s.cfg.Address, buyer, cost); err != nil {
			return err
		}

		sale.ApplyPurchase(amount, cost)
		if err := s.saveSale(ctx, sale); err != nil {
			return err
		}
		total := bought + amount
		if err := s.store.SetPurchased(ctx, token, buyer, total); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save purchase")
		}

		if err := s.payments.TransferFrom(ctx, s.cfg.PaymentAsset, s.cfg.Address, buyer, sale.Beneficiary, cost); err != nil {
			return err
		}
		if err := s.tokens.Transfer(ctx, token, s.cfg.Address, buyer, amount); err != nil {
			return err
		}
		purchase = &models.Purchase{Token: token, Buyer: buyer, Amount: total}
		return s.emit(ctx, events.TokensPurchased, token, map[string]string{
			"buyer":       buyer.String(),
			"amount":      amount.String(),
			"cost":        cost.String(),
			"tokens_sold": sale.TokensSold.String(),
			"buyer_total": total.String(),
		})
	})
	if err != nil {
		s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
		return nil, err
	}
	s.metrics.RecordPurchase(amount.Uint64(), cost.Uint64())
	return purchase, nil
}

// FinalizeSale closes an ended or sold-out sale and hands the unsold remainder
// and proceeds to the liquidity seeder when one is configured.
func (s *Service) FinalizeSale(ctx context.Context, token domain.Address) (*Settlement, error) {
	if err := s.requireOwner(ctx); err != nil {
		return nil, err
	}

	var settlement Settlement
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sale, err := s.loadSale(ctx, token)
		if err != nil {
			return err
		}
		if err := sale.CanFinalize(requestcontext.Now(ctx)); err != nil {
			return err
		}
		settlement.Handoff = sale.ApplyFinalize()
		if err := s.saveSale(ctx, sale); err != nil {
			return err
		}
		if s.seeder != nil {
			poolID, err := s.seeder.Seed(ctx, settlement.Handoff)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "liquidity seeding failed")
			}
			settlement.PoolID = poolID
		}
		return s.emit(ctx, events.SaleFinalized, token, map[string]string{
			"tokens_sold": sale.TokensSold.String(),
			"unsold":      settlement.Unsold.String(),
			"proceeds":    settlement.Proceeds.String(),
			"pool_id":     settlement.PoolID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementFinalized()
	s.logger.InfoContext(ctx, "sale finalized",
		"token", token.String(),
		"unsold", settlement.Unsold.String(),
		"proceeds", settlement.Proceeds.String(),
	)
	return &settlement, nil
}

// FinalizeEnded finalizes every open sale whose window has closed or that sold
// out, as the market owner. It returns the number finalized.
func (s *Service) FinalizeEnded(ctx context.Context) (int, error) {
	open, err := ledger.Read(ctx, s.tx, func(ctx context.Context) ([]models.Sale, error) {
		return s.store.ListOpenSales(ctx)
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sales")
	}
	ctx = requestcontext.WithCaller(ctx, s.cfg.Owner)
	now := requestcontext.Now(ctx)
	var (
		finalized int
		errs      []error
	)
	for i := range open {
		if !open[i].Ended(now) {
			continue
		}
		if _, err := s.FinalizeSale(ctx, open[i].Token); err != nil {
			errs = append(errs, fmt.Errorf("finalize %s: %w", open[i].Token, err))
			continue
		}
		finalized++
	}
	return finalized, errors.Join(errs...)
}

// GetSale returns the current or last sale of token.
func (s *Service) GetSale(ctx context.Context, token domain.Address) (*models.Sale, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*models.Sale, error) {
		sale, err := s.store.FindSale(ctx, token)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "token has no sale")
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sale")
		}
		return sale, nil
	})
}

// SaleOpen reports whether token has a sale that is running or awaiting
// finalization. Tokens that never had a sale report false.
func (s *Service) SaleOpen(ctx context.Context, token domain.Address) (bool, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (bool, error) {
		sale, err := s.store.FindSale(ctx, token)
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sale")
		}
		return sale.Open(), nil
	})
}

// GetPurchase returns buyer's cumulative purchase in the current sale.
func (s *Service) GetPurchase(ctx context.Context, token, buyer domain.Address) (*models.Purchase, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*models.Purchase, error) {
		amount, err := s.store.Purchased(ctx, token, buyer)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load purchases")
		}
		return &models.Purchase{Token: token, Buyer: buyer, Amount: amount}, nil
	})
}

// BuyerCap returns the per-buyer cap of token's sale.
func (s *Service) BuyerCap(ctx context.Context, token domain.Address) (domain.Amount, error) {
	sale, err := s.GetSale(ctx, token)
	if err != nil {
		return 0, err
	}
	return sale.BuyerCap(), nil
}

// Quote prices amount for the caller without buying.
func (s *Service) Quote(ctx context.Context, token domain.Address, amount domain.Amount) (*Quote, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*Quote, error) {
		return s.quote(ctx, token, amount)
	})
}

func (s *Service) quote(ctx context.Context, token domain.Address, amount domain.Amount) (*Quote, error) {
	sale, err := s.GetSale(ctx, token)
	if err != nil {
		return nil, err
	}
	cost, err := sale.Cost(amount)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Amount:    amount,
		Cost:      cost,
		Remaining: sale.Remaining(),
		BuyerCap:  sale.BuyerCap(),
	}
	if caller := requestcontext.Caller(ctx); !caller.IsZero() {
		bought, err := s.store.Purchased(ctx, token, caller)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load purchases")
		}
		if bought < q.BuyerCap {
			q.BuyerAllowed = min(q.BuyerCap-bought, q.Remaining)
		}
	}
	return q, nil
}

func (s *Service) requireOwner(ctx context.Context) error {
	if requestcontext.Caller(ctx) != s.cfg.Owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the market owner")
	}
	return nil
}

func (s *Service) loadSale(ctx context.Context, token domain.Address) (*models.Sale, error) {
	sale, err := s.store.FindSale(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeSaleNotActive, "no active sale for token")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sale")
	}
	return sale, nil
}

func (s *Service) saveSale(ctx context.Context, sale *models.Sale) error {
	if err := s.store.SaveSale(ctx, sale); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save sale")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, kind events.Kind, token domain.Address, attrs map[string]string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Kind:       kind,
		Component:  events.ComponentMarket,
		Subject:    token.String(),
		Attributes: attrs,
	})
}
