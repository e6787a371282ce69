// Package service implements the token factory: issuance of ownership tokens
// for approved properties and the hand-over of the public tranche to the
// primary market.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"landledger/internal/events"
	"landledger/internal/factory"
	"landledger/internal/ledger"
	"landledger/internal/registry/models"
	"landledger/internal/token"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/sentinel"
	"landledger/pkg/requestcontext"
)

// Store keeps the factory's issuance log. Append returns sentinel.ErrConflict
// when the property already has a token.
type Store interface {
	Append(ctx context.Context, propertyID domain.PropertyID, tokenAddr domain.Address) error
	TokenForProperty(ctx context.Context, propertyID domain.PropertyID) (domain.Address, error)
	List(ctx context.Context) ([]domain.Address, error)
	At(ctx context.Context, index uint64) (domain.Address, error)
	Count(ctx context.Context) (uint64, error)
}

// Tokens is the token record service.
type Tokens interface {
	Deploy(ctx context.Context, t *token.Token) error
	Get(ctx context.Context, addr domain.Address) (*token.Token, error)
	Advance(ctx context.Context, addr domain.Address, next token.Status) error
	Exempt(ctx context.Context, addr, holder domain.Address) error
	Mint(ctx context.Context, addr, to domain.Address, amount domain.Amount) error
	Transfer(ctx context.Context, addr, from, to domain.Address, amount domain.Amount) error
	BalanceOf(ctx context.Context, addr, holder domain.Address) (domain.Amount, error)
}

// Sales reports whether a token's primary sale is still open.
type Sales interface {
	SaleOpen(ctx context.Context, token domain.Address) (bool, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

type Config struct {
	// Address is the factory's own account; it holds the public tranche until
	// it is moved to the market.
	Address domain.Address
	// Owner may move tokens to the market and reconfigure the factory.
	Owner        domain.Address
	FeeRecipient domain.Address
	// Market is the default primary market destination.
	Market domain.Address
}

type Service struct {
	store    Store
	tokens   Tokens
	tx       ledger.Runner
	registry capability.Handle
	address  domain.Address
	owner    domain.Address
	market   domain.Address

	mu           sync.RWMutex
	feeRecipient domain.Address

	sales     Sales
	publisher EventPublisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSales keeps EnableTrading refused while the token's primary sale is open.
func WithSales(sales Sales) Option {
	return func(s *Service) { s.sales = sales }
}

func New(store Store, tokens Tokens, tx ledger.Runner, cfg Config, registry capability.Handle, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("factory store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	if !registry.Valid() {
		return nil, fmt.Errorf("registry handle is required")
	}
	if cfg.Address.IsZero() || cfg.Owner.IsZero() || cfg.FeeRecipient.IsZero() {
		return nil, fmt.Errorf("factory, owner and fee recipient addresses are required")
	}
	s := &Service{
		store:        store,
		tokens:       tokens,
		tx:           tx,
		registry:     registry,
		address:      cfg.Address,
		owner:        cfg.Owner,
		market:       cfg.Market,
		feeRecipient: cfg.FeeRecipient,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Address is the factory's own account.
func (s *Service) Address() domain.Address { return s.address }

// CreateLandToken issues the ownership token for an approved property. Only the
// registry may call it.
func (s *Service) CreateLandToken(ctx context.Context, h capability.Handle, owner domain.Address, m models.PropertyMetadata, id domain.PropertyID) (domain.Address, error) {
	if err := capability.Check(s.registry, h); err != nil {
		return domain.ZeroAddress, err
	}
	alloc, err := factory.Allocate(m.Valuation)
	if err != nil {
		return domain.ZeroAddress, err
	}

	var addr domain.Address
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.TokenForProperty(ctx, id); err == nil {
			return dErrors.New(dErrors.CodeTokenAlreadyExists, "property already has a token")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token mapping")
		}
		sequence, err := s.store.Count(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count tokens")
		}
		issuedAt := requestcontext.Now(ctx)
		addr = factory.DeriveTokenAddress(s.address, factory.CreationSalt(id, issuedAt, sequence))

		t := &token.Token{
			Address:         addr,
			PropertyID:      id,
			Name:            tokenName(m),
			Symbol:          tokenSymbol(id),
			Location:        m.Location,
			Valuation:       m.Valuation,
			Area:            m.Area,
			Status:          token.StatusPending,
			TotalSupply:     alloc.TotalSupply,
			OwnerAllocation: alloc.OwnerAllocation,
			PlatformFee:     alloc.PlatformFee,
			PublicSale:      alloc.PublicSale,
			IssuedAt:        issuedAt,
			Sequence:        sequence,
		}
		if err := s.store.Append(ctx, id, addr); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeTokenAlreadyExists, "property already has a token")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record token")
		}
		if err := s.tokens.Deploy(ctx, t); err != nil {
			return err
		}
		if err := s.tokens.Advance(ctx, addr, token.StatusVerified); err != nil {
			return err
		}
		if err := s.tokens.Exempt(ctx, addr, s.address); err != nil {
			return err
		}
		if err := s.tokens.Mint(ctx, addr, owner, alloc.OwnerAllocation); err != nil {
			return err
		}
		if err := s.tokens.Mint(ctx, addr, s.currentFeeRecipient(), alloc.PlatformFee); err != nil {
			return err
		}
		if err := s.tokens.Mint(ctx, addr, s.address, alloc.PublicSale); err != nil {
			return err
		}
		return s.emit(ctx, events.TokenCreated, addr, map[string]string{
			"property_id":  id.String(),
			"owner":        owner.String(),
			"total_supply": alloc.TotalSupply.String(),
		})
	})
	if err != nil {
		return domain.ZeroAddress, err
	}
	s.logger.InfoContext(ctx, "land token created",
		"token", addr.String(),
		"property_id", id.String(),
		"total_supply", alloc.TotalSupply.String(),
	)
	return addr, nil
}

// TransferToPrimaryMarket moves amount of the factory's tranche to market. A
// zero market means the configured default.
func (s *Service) TransferToPrimaryMarket(ctx context.Context, tokenAddr, market domain.Address, amount domain.Amount) error {
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	if market.IsZero() {
		market = s.market
	}
	if market.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "market address is required")
	}
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeZeroAmount, "amount must be greater than zero")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireIssued(ctx, tokenAddr); err != nil {
			return err
		}
		held, err := s.tokens.BalanceOf(ctx, tokenAddr, s.address)
		if err != nil {
			return err
		}
		if held < amount {
			return dErrors.New(dErrors.CodeInsufficientFactoryBalance, fmt.Sprintf("factory holds %s tokens", held))
		}
		if err := s.tokens.Exempt(ctx, tokenAddr, market); err != nil {
			return err
		}
		if err := s.tokens.Transfer(ctx, tokenAddr, s.address, market, amount); err != nil {
			return err
		}
		return s.emit(ctx, events.TokensTransferredToMarket, tokenAddr, map[string]string{
			"market": market.String(),
			"amount": amount.String(),
		})
	})
}

// EnableTrading lifts the transfer lock of an issued token once its primary
// sale, if any, has been finalized.
func (s *Service) EnableTrading(ctx context.Context, tokenAddr domain.Address) error {
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireIssued(ctx, tokenAddr); err != nil {
			return err
		}
		if s.sales != nil {
			open, err := s.sales.SaleOpen(ctx, tokenAddr)
			if err != nil {
				return err
			}
			if open {
				return dErrors.New(dErrors.CodeSaleStillRunning, "primary sale must be finalized before trading")
			}
		}
		if err := s.tokens.Advance(ctx, tokenAddr, token.StatusTrading); err != nil {
			return err
		}
		return s.emit(ctx, events.TradingEnabled, tokenAddr, nil)
	})
}

// ComputeTokenAddress previews the address for id at the request time. The
// preview salt has no sequence component, so the result generally differs from
// the address CreateLandToken assigns; use PredictTokenAddress for that.
func (s *Service) ComputeTokenAddress(ctx context.Context, id domain.PropertyID) domain.Address {
	return factory.DeriveTokenAddress(s.address, factory.PreviewSalt(id, requestcontext.Now(ctx)))
}

// PredictTokenAddress returns the address issuance would assign for the given
// time and sequence.
func (s *Service) PredictTokenAddress(id domain.PropertyID, issuedAt time.Time, sequence uint64) domain.Address {
	return factory.DeriveTokenAddress(s.address, factory.CreationSalt(id, issuedAt, sequence))
}

func (s *Service) SetFeeRecipient(ctx context.Context, recipient domain.Address) error {
	if recipient.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "fee recipient is required")
	}
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.feeRecipient = recipient
	s.mu.Unlock()
	return s.emit(ctx, events.FeeRecipientChanged, recipient, nil)
}

func (s *Service) FeeRecipient() domain.Address { return s.currentFeeRecipient() }

// GetAllTokens lists issued tokens in creation order.
func (s *Service) GetAllTokens(ctx context.Context) ([]domain.Address, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) ([]domain.Address, error) {
		list, err := s.store.List(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tokens")
		}
		return list, nil
	})
}

// AllTokens returns the index-th issued token.
func (s *Service) AllTokens(ctx context.Context, index uint64) (domain.Address, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (domain.Address, error) {
		a, err := s.store.At(ctx, index)
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.ZeroAddress, dErrors.New(dErrors.CodeNotFound, "token index out of range")
		}
		if err != nil {
			return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token")
		}
		return a, nil
	})
}

func (s *Service) GetTokenCount(ctx context.Context) (uint64, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (uint64, error) {
		n, err := s.store.Count(ctx)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count tokens")
		}
		return n, nil
	})
}

// TokenForProperty returns the token issued for id, or the zero address.
func (s *Service) TokenForProperty(ctx context.Context, id domain.PropertyID) (domain.Address, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (domain.Address, error) {
		a, err := s.store.TokenForProperty(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.ZeroAddress, nil
		}
		if err != nil {
			return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token mapping")
		}
		return a, nil
	})
}

// GetToken returns the token record.
func (s *Service) GetToken(ctx context.Context, addr domain.Address) (*token.Token, error) {
	return s.tokens.Get(ctx, addr)
}

func (s *Service) requireOwner(ctx context.Context) error {
	if requestcontext.Caller(ctx) != s.owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the factory owner")
	}
	return nil
}

func (s *Service) requireIssued(ctx context.Context, tokenAddr domain.Address) error {
	t, err := s.tokens.Get(ctx, tokenAddr)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return dErrors.New(dErrors.CodeTokenNotFromFactory, "token was not issued by this factory")
	}
	if err != nil {
		return err
	}
	mapped, err := s.store.TokenForProperty(ctx, t.PropertyID)
	if err != nil || mapped != tokenAddr {
		return dErrors.New(dErrors.CodeTokenNotFromFactory, "token was not issued by this factory")
	}
	return nil
}

func (s *Service) currentFeeRecipient() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeRecipient
}

func (s *Service) emit(ctx context.Context, kind events.Kind, subject domain.Address, attrs map[string]string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Kind:       kind,
		Component:  events.ComponentFactory,
		Subject:    subject.String(),
		Attributes: attrs,
	})
}

func tokenName(m models.PropertyMetadata) string {
	return "Land Token " + m.SurveyID
}

// tokenSymbol is LAND- followed by the first three id bytes in upper-case hex.
func tokenSymbol(id domain.PropertyID) string {
	return "LAND-" + strings.ToUpper(id.String()[2:8])
}
