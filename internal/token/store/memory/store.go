package memory

import (
	"context"
	"sync"

	"landledger/internal/ledger"
	"landledger/internal/token"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
)

type exemptKey struct {
	token, holder domain.Address
}

type Store struct {
	mu     sync.RWMutex
	tokens map[domain.Address]token.Token
	exempt map[exemptKey]struct{}
}

func New() *Store {
	return &Store{
		tokens: make(map[domain.Address]token.Token),
		exempt: make(map[exemptKey]struct{}),
	}
}

func (s *Store) Create(ctx context.Context, t *token.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[t.Address]; ok {
		return sentinel.ErrConflict
	}
	s.tokens[t.Address] = *t
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tokens, t.Address)
	})
	return nil
}

func (s *Store) FindByAddress(_ context.Context, addr domain.Address) (*token.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *Store) UpdateStatus(ctx context.Context, addr domain.Address, status token.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[addr]
	if !ok {
		return sentinel.ErrNotFound
	}
	prev := t.Status
	t.Status = status
	s.tokens[addr] = t
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t := s.tokens[addr]
		t.Status = prev
		s.tokens[addr] = t
	})
	return nil
}

func (s *Store) AddExempt(ctx context.Context, addr, holder domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := exemptKey{addr, holder}
	if _, ok := s.exempt[k]; ok {
		return nil
	}
	s.exempt[k] = struct{}{}
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.exempt, k)
	})
	return nil
}

func (s *Store) IsExempt(_ context.Context, addr, holder domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.exempt[exemptKey{addr, holder}]
	return ok, nil
}
