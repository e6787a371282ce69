// Package asset is the fungible balance and allowance ledger.
//
// It backs the payment asset and every ownership token. Callers are other
// ledger components; authorization of the principal (who may move whose funds)
// is decided by the caller before reaching this package, except for
// TransferFrom, which consumes the spender's allowance.
package asset

import (
	"context"
	"fmt"

	"landledger/internal/ledger"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

// Store persists balances, allowances and supplies. Missing rows read as zero.
type Store interface {
	Balance(ctx context.Context, asset, holder domain.Address) (domain.Amount, error)
	SetBalance(ctx context.Context, asset, holder domain.Address, amount domain.Amount) error
	Allowance(ctx context.Context, asset, owner, spender domain.Address) (domain.Amount, error)
	SetAllowance(ctx context.Context, asset, owner, spender domain.Address, amount domain.Amount) error
	Supply(ctx context.Context, asset domain.Address) (domain.Amount, error)
	SetSupply(ctx context.Context, asset domain.Address, amount domain.Amount) error
}

type Service struct {
	store Store
	tx    ledger.Runner
}

func New(store Store, tx ledger.Runner) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("asset store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	return &Service{store: store, tx: tx}, nil
}

// Mint creates amount units of asset for to.
func (s *Service) Mint(ctx context.Context, asset, to domain.Address, amount domain.Amount) error {
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeZeroAmount, "mint amount must be positive")
	}
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the zero address")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		supply, err := s.store.Supply(ctx, asset)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supply")
		}
		newSupply, err := supply.Add(amount)
		if err != nil {
			return err
		}
		if err := s.credit(ctx, asset, to, amount); err != nil {
			return err
		}
		if err := s.store.SetSupply(ctx, asset, newSupply); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save supply")
		}
		return nil
	})
}

// Transfer moves amount from from to to. Zero transfers succeed without effect.
func (s *Service) Transfer(ctx context.Context, asset, from, to domain.Address, amount domain.Amount) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot transfer to the zero address")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.move(ctx, asset, from, to, amount)
	})
}

// Approve sets spender's allowance over owner's balance. Zero revokes.
func (s *Service) Approve(ctx context.Context, asset, owner, spender domain.Address, amount domain.Amount) error {
	if spender.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "spender must not be the zero address")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.SetAllowance(ctx, asset, owner, spender, amount); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save allowance")
		}
		return nil
	})
}

// TransferFrom moves amount from from to to on behalf of spender, consuming allowance.
func (s *Service) TransferFrom(ctx context.Context, asset, spender, from, to domain.Address, amount domain.Amount) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot transfer to the zero address")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		allowed, err := s.store.Allowance(ctx, asset, from, spender)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load allowance")
		}
		if allowed < amount {
			return dErrors.New(dErrors.CodeInsufficientAllowance, "allowance below transfer amount")
		}
		if err := s.move(ctx, asset, from, to, amount); err != nil {
			return err
		}
		if err := s.store.SetAllowance(ctx, asset, from, spender, allowed-amount); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save allowance")
		}
		return nil
	})
}

// CanSpend checks allowance and balance without moving anything, with the same
// error codes TransferFrom would return.
func (s *Service) CanSpend(ctx context.Context, asset, spender, from domain.Address, amount domain.Amount) error {
	return s.tx.View(ctx, func(ctx context.Context) error {
		allowed, err := s.store.Allowance(ctx, asset, from, spender)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load allowance")
		}
		if allowed < amount {
			return dErrors.New(dErrors.CodeInsufficientAllowance, "allowance below transfer amount")
		}
		bal, err := s.store.Balance(ctx, asset, from)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
		}
		if bal < amount {
			return dErrors.New(dErrors.CodeInsufficientBalance, "balance below transfer amount")
		}
		return nil
	})
}

func (s *Service) BalanceOf(ctx context.Context, asset, holder domain.Address) (domain.Amount, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (domain.Amount, error) {
		bal, err := s.store.Balance(ctx, asset, holder)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
		}
		return bal, nil
	})
}

func (s *Service) Allowance(ctx context.Context, asset, owner, spender domain.Address) (domain.Amount, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (domain.Amount, error) {
		a, err := s.store.Allowance(ctx, asset, owner, spender)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load allowance")
		}
		return a, nil
	})
}

func (s *Service) TotalSupply(ctx context.Context, asset domain.Address) (domain.Amount, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (domain.Amount, error) {
		supply, err := s.store.Supply(ctx, asset)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supply")
		}
		return supply, nil
	})
}

func (s *Service) move(ctx context.Context, asset, from, to domain.Address, amount domain.Amount) error {
	bal, err := s.store.Balance(ctx, asset, from)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	if bal < amount {
		return dErrors.New(dErrors.CodeInsufficientBalance, "balance below transfer amount")
	}
	if amount.IsZero() || from == to {
		return nil
	}
	if err := s.store.SetBalance(ctx, asset, from, bal-amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save balance")
	}
	return s.credit(ctx, asset, to, amount)
}

func (s *Service) credit(ctx context.Context, asset, to domain.Address, amount domain.Amount) error {
	bal, err := s.store.Balance(ctx, asset, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	next, err := bal.Add(amount)
	if err != nil {
		return err
	}
	if err := s.store.SetBalance(ctx, asset, to, next); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save balance")
	}
	return nil
}
