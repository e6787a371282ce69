package memory

import (
	"context"
	"sort"
	"sync"

	"landledger/internal/ledger"
	"landledger/internal/registry/models"
	"landledger/pkg/domain"
	"landledger/pkg/platform/sentinel"
)

// Store keeps properties and verifiers in memory. Every mutation registers an
// undo with the ledger journal so a failed transaction leaves no trace.
type Store struct {
	mu         sync.RWMutex
	properties map[domain.PropertyID]models.Property
	byOwner    map[domain.Address][]domain.PropertyID
	byToken    map[domain.Address]domain.PropertyID
	verifiers  map[domain.Address]struct{}
	nonce      uint64
}

func New() *Store {
	return &Store{
		properties: make(map[domain.PropertyID]models.Property),
		byOwner:    make(map[domain.Address][]domain.PropertyID),
		byToken:    make(map[domain.Address]domain.PropertyID),
		verifiers:  make(map[domain.Address]struct{}),
	}
}

func (s *Store) Create(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[p.ID]; ok {
		return sentinel.ErrConflict
	}
	s.properties[p.ID] = *p
	s.byOwner[p.Owner] = append(s.byOwner[p.Owner], p.ID)
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.properties, p.ID)
		ids := s.byOwner[p.Owner]
		if n := len(ids); n > 0 && ids[n-1] == p.ID {
			s.byOwner[p.Owner] = ids[:n-1]
		}
	})
	return nil
}

func (s *Store) FindByID(_ context.Context, id domain.PropertyID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindByToken(_ context.Context, token domain.Address) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p := s.properties[id]
	return &p, nil
}

func (s *Store) Update(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.properties[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.properties[p.ID] = *p
	indexed := !p.TokenAddress.IsZero() && prev.TokenAddress != p.TokenAddress
	if indexed {
		s.byToken[p.TokenAddress] = p.ID
	}
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.properties[p.ID] = prev
		if indexed {
			delete(s.byToken, p.TokenAddress)
		}
	})
	return nil
}

func (s *Store) ListByOwner(_ context.Context, owner domain.Address) ([]domain.PropertyID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byOwner[owner]
	out := make([]domain.PropertyID, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *Store) NextNonce(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nonce
	s.nonce++
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nonce = n
	})
	return n, nil
}

func (s *Store) AddVerifier(ctx context.Context, v domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.verifiers[v]; ok {
		return false, nil
	}
	s.verifiers[v] = struct{}{}
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.verifiers, v)
	})
	return true, nil
}

func (s *Store) RemoveVerifier(ctx context.Context, v domain.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.verifiers[v]; !ok {
		return false, nil
	}
	delete(s.verifiers, v)
	ledger.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.verifiers[v] = struct{}{}
	})
	return true, nil
}

func (s *Store) IsVerifier(_ context.Context, v domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.verifiers[v]
	return ok, nil
}

// ListVerifiers returns verifiers sorted by address.
func (s *Store) ListVerifiers(_ context.Context) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Address, 0, len(s.verifiers))
	for v := range s.verifiers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
