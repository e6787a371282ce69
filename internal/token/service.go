package token

import (
	"context"
	"errors"
	"fmt"

	"landledger/internal/ledger"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/sentinel"
)

// Store persists token records and their transfer exemptions.
type Store interface {
	Create(ctx context.Context, t *Token) error
	FindByAddress(ctx context.Context, addr domain.Address) (*Token, error)
	UpdateStatus(ctx context.Context, addr domain.Address, status Status) error
	AddExempt(ctx context.Context, addr, holder domain.Address) error
	IsExempt(ctx context.Context, addr, holder domain.Address) (bool, error)
}

// Balances is the fungible ledger holding token balances.
type Balances interface {
	Mint(ctx context.Context, asset, to domain.Address, amount domain.Amount) error
	Transfer(ctx context.Context, asset, from, to domain.Address, amount domain.Amount) error
	BalanceOf(ctx context.Context, asset, holder domain.Address) (domain.Amount, error)
}

type Service struct {
	store    Store
	balances Balances
	tx       ledger.Runner
}

func NewService(store Store, balances Balances, tx ledger.Runner) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance ledger is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	return &Service{store: store, balances: balances, tx: tx}, nil
}

// Deploy records a new token. The address must be unused.
func (s *Service) Deploy(ctx context.Context, t *Token) error {
	if err := t.CheckAllocations(); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, t); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeTokenAlreadyExists, "token address already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save token")
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, addr domain.Address) (*Token, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*Token, error) {
		t, err := s.store.FindByAddress(ctx, addr)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token")
		}
		return t, nil
	})
}

// Advance moves the token status forward.
func (s *Service) Advance(ctx context.Context, addr domain.Address, next Status) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		t, err := s.Get(ctx, addr)
		if err != nil {
			return err
		}
		if err := t.CanAdvanceTo(next); err != nil {
			return err
		}
		if err := s.store.UpdateStatus(ctx, addr, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update token status")
		}
		return nil
	})
}

// Exempt lets holder transfer while the token is not yet trading.
func (s *Service) Exempt(ctx context.Context, addr, holder domain.Address) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, addr); err != nil {
			return err
		}
		if err := s.store.AddExempt(ctx, addr, holder); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save exemption")
		}
		return nil
	})
}

// Mint credits freshly issued units.
func (s *Service) Mint(ctx context.Context, addr, to domain.Address, amount domain.Amount) error {
	if amount.IsZero() {
		return nil
	}
	return s.balances.Mint(ctx, addr, to, amount)
}

// Transfer moves tokens, refusing while locked unless from is exempt.
func (s *Service) Transfer(ctx context.Context, addr, from, to domain.Address, amount domain.Amount) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		t, err := s.Get(ctx, addr)
		if err != nil {
			return err
		}
		exempt, err := s.store.IsExempt(ctx, addr, from)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load exemption")
		}
		if !t.Transferable(exempt) {
			return dErrors.New(dErrors.CodeTransferLocked, "token transfers are locked until trading is enabled")
		}
		return s.balances.Transfer(ctx, addr, from, to, amount)
	})
}

func (s *Service) BalanceOf(ctx context.Context, addr, holder domain.Address) (domain.Amount, error) {
	return s.balances.BalanceOf(ctx, addr, holder)
}
