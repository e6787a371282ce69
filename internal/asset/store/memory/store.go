package memory

import (
	"context"
	"sync"

	"landledger/internal/ledger"
	"landledger/pkg/domain"
)

type holdingKey struct {
	asset, holder domain.Address
}

type allowanceKey struct {
	asset, owner, spender domain.Address
}

// Store keeps balances in maps. Every write registers its undo with the ledger.
type Store struct {
	mu         sync.RWMutex
	balances   map[holdingKey]domain.Amount
	allowances map[allowanceKey]domain.Amount
	supplies   map[domain.Address]domain.Amount
}

func New() *Store {
	return &Store{
		balances:   make(map[holdingKey]domain.Amount),
		allowances: make(map[allowanceKey]domain.Amount),
		supplies:   make(map[domain.Address]domain.Amount),
	}
}

func (s *Store) Balance(_ context.Context, asset, holder domain.Address) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[holdingKey{asset, holder}], nil
}

func (s *Store) SetBalance(ctx context.Context, asset, holder domain.Address, amount domain.Amount) error {
	setJournaled(ctx, &s.mu, s.balances, holdingKey{asset, holder}, amount)
	return nil
}

func (s *Store) Allowance(_ context.Context, asset, owner, spender domain.Address) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowances[allowanceKey{asset, owner, spender}], nil
}

func (s *Store) SetAllowance(ctx context.Context, asset, owner, spender domain.Address, amount domain.Amount) error {
	setJournaled(ctx, &s.mu, s.allowances, allowanceKey{asset, owner, spender}, amount)
	return nil
}

func (s *Store) Supply(_ context.Context, asset domain.Address) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supplies[asset], nil
}

func (s *Store) SetSupply(ctx context.Context, asset domain.Address, amount domain.Amount) error {
	setJournaled(ctx, &s.mu, s.supplies, asset, amount)
	return nil
}

// setJournaled writes m[k] = v and records how to restore the previous value.
// Zero amounts are stored as absent keys.
func setJournaled[K comparable](ctx context.Context, mu *sync.RWMutex, m map[K]domain.Amount, k K, v domain.Amount) {
	mu.Lock()
	prev, existed := m[k]
	if v.IsZero() {
		delete(m, k)
	} else {
		m[k] = v
	}
	mu.Unlock()

	ledger.OnRollback(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}
