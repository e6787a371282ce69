// Package service implements the collateral vault: deposits, withdrawals of
// unlocked stake, and the registry-only lock, release and forfeit paths.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"landledger/internal/events"
	"landledger/internal/ledger"
	"landledger/internal/vault/models"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/sentinel"
	"landledger/pkg/requestcontext"
)

// Store persists stakes. FindByOwner returns sentinel.ErrNotFound for owners with no stake.
type Store interface {
	FindByOwner(ctx context.Context, owner domain.Address) (*models.Stake, error)
	Save(ctx context.Context, stake *models.Stake) error
}

// Payments is the payment asset ledger.
type Payments interface {
	Transfer(ctx context.Context, asset, from, to domain.Address, amount domain.Amount) error
	TransferFrom(ctx context.Context, asset, spender, from, to domain.Address, amount domain.Amount) error
	BalanceOf(ctx context.Context, asset, holder domain.Address) (domain.Amount, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Config names the vault account and the asset it custodies.
type Config struct {
	Address      domain.Address
	PaymentAsset domain.Address
}

type Service struct {
	store     Store
	payments  Payments
	tx        ledger.Runner
	cfg       Config
	registry  capability.Handle
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

// New constructs the vault. registry is the handle the registry presents on
// lock, release and forfeit.
func New(store Store, payments Payments, tx ledger.Runner, cfg Config, registry capability.Handle, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("stake store is required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment ledger is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	if cfg.Address.IsZero() || cfg.PaymentAsset.IsZero() {
		return nil, fmt.Errorf("vault address and payment asset are required")
	}
	if !registry.Valid() {
		return nil, fmt.Errorf("registry handle is required")
	}
	s := &Service{
		store:    store,
		payments: payments,
		tx:       tx,
		cfg:      cfg,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Address is the vault's own account on the payment ledger.
func (s *Service) Address() domain.Address { return s.cfg.Address }

// DepositStake pulls amount from the caller through their allowance to the vault.
func (s *Service) DepositStake(ctx context.Context, amount domain.Amount) (*models.Stake, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is required")
	}
	if amount.IsZero() {
		return nil, dErrors.New(dErrors.CodeZeroAmount, "deposit amount must be positive")
	}

	var stake *models.Stake
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		stake, err = s.load(ctx, caller)
		if err != nil {
			return err
		}
		if err := stake.ApplyDeposit(amount, requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.save(ctx, stake); err != nil {
			return err
		}
		if err := s.payments.TransferFrom(ctx, s.cfg.PaymentAsset, s.cfg.Address, caller, s.cfg.Address, amount); err != nil {
			return err
		}
		return s.emit(ctx, events.StakeDeposited, caller, amount, nil)
	})
	if err != nil {
		return nil, err
	}
	return stake, nil
}

// WithdrawStake returns unlocked stake to the caller.
func (s *Service) WithdrawStake(ctx context.Context, amount domain.Amount) (*models.Stake, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is required")
	}
	if amount.IsZero() {
		return nil, dErrors.New(dErrors.CodeZeroAmount, "withdrawal amount must be positive")
	}

	var stake *models.Stake
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		stake, err = s.load(ctx, caller)
		if err != nil {
			return err
		}
		if err := stake.CanWithdraw(amount); err != nil {
			return err
		}
		stake.ApplyWithdraw(amount, requestcontext.Now(ctx))
		if err := s.save(ctx, stake); err != nil {
			return err
		}
		if err := s.payments.Transfer(ctx, s.cfg.PaymentAsset, s.cfg.Address, caller, amount); err != nil {
			return err
		}
		return s.emit(ctx, events.StakeWithdrawn, caller, amount, nil)
	})
	if err != nil {
		return nil, err
	}
	return stake, nil
}

// Lock reserves amount of owner's unlocked stake behind a registration.
func (s *Service) Lock(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount) error {
	if err := capability.Check(s.registry, h); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		stake, err := s.load(ctx, owner)
		if err != nil {
			return err
		}
		if err := stake.CanLock(amount); err != nil {
			return err
		}
		stake.ApplyLock(amount, requestcontext.Now(ctx))
		return s.save(ctx, stake)
	})
}

// Release returns amount of owner's stake to owner.
func (s *Service) Release(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount) error {
	if err := capability.Check(s.registry, h); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.payOut(ctx, owner, owner, amount); err != nil {
			return err
		}
		return s.emit(ctx, events.StakeReleased, owner, amount, nil)
	})
}

// Forfeit moves amount of owner's stake to beneficiary. Irreversible.
func (s *Service) Forfeit(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount, beneficiary domain.Address) error {
	if err := capability.Check(s.registry, h); err != nil {
		return err
	}
	if beneficiary.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "forfeit beneficiary is required")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.payOut(ctx, owner, beneficiary, amount); err != nil {
			return err
		}
		return s.emit(ctx, events.StakeForfeited, owner, amount, map[string]string{
			"beneficiary": beneficiary.String(),
		})
	})
}

// GetStake returns owner's stake; owners that never deposited have a zero stake.
func (s *Service) GetStake(ctx context.Context, owner domain.Address) (*models.Stake, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*models.Stake, error) {
		return s.load(ctx, owner)
	})
}

// Custody is the vault's payment balance, the sum of all stakes.
func (s *Service) Custody(ctx context.Context) (domain.Amount, error) {
	return s.payments.BalanceOf(ctx, s.cfg.PaymentAsset, s.cfg.Address)
}

func (s *Service) payOut(ctx context.Context, owner, to domain.Address, amount domain.Amount) error {
	stake, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	if err := stake.CanPayOut(amount); err != nil {
		return err
	}
	stake.ApplyPayOut(amount, requestcontext.Now(ctx))
	if err := s.save(ctx, stake); err != nil {
		return err
	}
	return s.payments.Transfer(ctx, s.cfg.PaymentAsset, s.cfg.Address, to, amount)
}

func (s *Service) load(ctx context.Context, owner domain.Address) (*models.Stake, error) {
	stake, err := s.store.FindByOwner(ctx, owner)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &models.Stake{Owner: owner}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stake")
	}
	return stake, nil
}

func (s *Service) save(ctx context.Context, stake *models.Stake) error {
	if err := s.store.Save(ctx, stake); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save stake")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, kind events.Kind, owner domain.Address, amount domain.Amount, extra map[string]string) error {
	if s.publisher == nil {
		return nil
	}
	attrs := map[string]string{
		"owner":  owner.String(),
		"amount": amount.String(),
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return s.publisher.Emit(ctx, events.Event{
		Kind:       kind,
		Component:  events.ComponentVault,
		Subject:    owner.String(),
		Attributes: attrs,
	})
}
