// Package service implements the property registry: the stake-gated property
// lifecycle, verifier-gated resolution, and the hand-off to the vault and the
// token factory.
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
	"landledger/internal/ledger"
	"landledger/internal/registry/metrics"
	"landledger/internal/registry/models"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/sentinel"
	"landledger/pkg/requestcontext"
)

const (
	// MinStakeBasisPoints is the minimum collateral as a share of valuation (5%).
	MinStakeBasisPoints domain.Amount = 500

	maxReasonLength = 1024
)

// Store persists properties, the verifier set and the id nonce.
type Store interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id domain.PropertyID) (*models.Property, error)
	FindByToken(ctx context.Context, token domain.Address) (*models.Property, error)
	Update(ctx context.Context, p *models.Property) error
	ListByOwner(ctx context.Context, owner domain.Address) ([]domain.PropertyID, error)
	NextNonce(ctx context.Context) (uint64, error)

	AddVerifier(ctx context.Context, verifier domain.Address) (bool, error)
	RemoveVerifier(ctx context.Context, verifier domain.Address) (bool, error)
	IsVerifier(ctx context.Context, verifier domain.Address) (bool, error)
	ListVerifiers(ctx context.Context) ([]domain.Address, error)
}

// Vault is the collateral vault as seen by the registry.
type Vault interface {
	Lock(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount) error
	Release(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount) error
	Forfeit(ctx context.Context, h capability.Handle, owner domain.Address, amount domain.Amount, beneficiary domain.Address) error
}

// TokenFactory issues the ownership token of an approved property.
type TokenFactory interface {
	CreateLandToken(ctx context.Context, h capability.Handle, owner domain.Address, m models.PropertyMetadata, id domain.PropertyID) (domain.Address, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Config holds the registry principals.
type Config struct {
	// Owner administers the verifier set and collaborators.
	Owner domain.Address
	// Treasury receives forfeited stake.
	Treasury domain.Address
}

type Service struct {
	store  Store
	tx     ledger.Runner
	handle capability.Handle

	mu       sync.RWMutex
	vault    Vault
	factory  TokenFactory
	treasury domain.Address
	owner    domain.Address

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

// New constructs the registry. handle is presented to the vault and the factory
// on registry-only calls.
func New(store Store, vault Vault, factory TokenFactory, tx ledger.Runner, handle capability.Handle, cfg Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("property store is required")
	}
	if vault == nil {
		return nil, fmt.Errorf("staking vault is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("token factory is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("ledger runner is required")
	}
	if !handle.Valid() {
		return nil, fmt.Errorf("registry handle is required")
	}
	if cfg.Owner.IsZero() || cfg.Treasury.IsZero() {
		return nil, fmt.Errorf("owner and treasury addresses are required")
	}
	s := &Service{
		store:    store,
		tx:       tx,
		handle:   handle,
		vault:    vault,
		factory:  factory,
		treasury: cfg.Treasury,
		owner:    cfg.Owner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CalculateMinStake returns ceil(valuation * 5%).
func CalculateMinStake(valuation domain.Amount) (domain.Amount, error) {
	return domain.MulDivCeil(valuation, MinStakeBasisPoints, domain.BasisPoints)
}

// RegisterProperty creates a Pending property for the caller, locking stakeAmount
// of their vault stake behind it.
func (s *Service) RegisterProperty(ctx context.Context, m models.PropertyMetadata, stakeAmount domain.Amount) (*models.Property, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is required")
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	minStake, err := CalculateMinStake(m.Valuation)
	if err != nil {
		return nil, err
	}
	if stakeAmount < minStake {
		return nil, dErrors.New(dErrors.CodeInsufficientStake, fmt.Sprintf("stake must be at least %s", minStake))
	}

	var property *models.Property
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		nonce, err := s.store.NextNonce(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate property nonce")
		}
		id := models.DerivePropertyID(m, caller, nonce)
		property = models.NewProperty(id, caller, m, stakeAmount, requestcontext.Now(ctx))

		if err := s.store.Create(ctx, property); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodePropertyAlreadyExists, "property already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save property")
		}
		if err := s.currentVault().Lock(ctx, s.handle, caller, stakeAmount); err != nil {
			return err
		}
		return s.emit(ctx, events.PropertyRegistered, id, map[string]string{
			"owner":        caller.String(),
			"valuation":    m.Valuation.String(),
			"stake_amount": stakeAmount.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementRegistered()
	return property, nil
}

// VerifyProperty resolves a Pending property. Approval issues the ownership
// token; rejection records reason. Either way the stake is released.
func (s *Service) VerifyProperty(ctx context.Context, id domain.PropertyID, approved bool, reason string) (*models.Property, error) {
	start := time.Now()
	defer s.metrics.ObserveVerify(start)

	if len(reason) > maxReasonLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reason must be at most 1024 bytes")
	}

	var property *models.Property
	outcome := "rejected"
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireVerifier(ctx); err != nil {
			return err
		}
		p, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := p.CanResolve(); err != nil {
			return err
		}

		if !approved {
			released := p.ApplyRejection(reason)
			if err := s.save(ctx, p); err != nil {
				return err
			}
			if err := s.release(ctx, p.Owner, released); err != nil {
				return err
			}
			property = p
			return s.emit(ctx, events.PropertyRejected, id, map[string]string{"reason": reason})
		}

		p.ApplyApproval(requestcontext.Now(ctx))
		if err := s.save(ctx, p); err != nil {
			return err
		}
		tokenAddr, err := s.currentFactory().CreateLandToken(ctx, s.handle, p.Owner, p.Metadata, p.ID)
		if err != nil {
			return err
		}
		released := p.ApplyTokenization(tokenAddr)
		if err := s.save(ctx, p); err != nil {
			return err
		}
		if err := s.release(ctx, p.Owner, released); err != nil {
			return err
		}
		property = p
		outcome = "tokenized"
		return s.emit(ctx, events.PropertyVerified, id, map[string]string{"token": tokenAddr.String()})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementResolution(outcome)
	return property, nil
}

// SlashProperty marks a property fraudulent and forfeits its outstanding stake
// to the treasury. evidence is recorded verbatim.
func (s *Service) SlashProperty(ctx context.Context, id domain.PropertyID, evidence string) (*models.Property, error) {
	if strings.TrimSpace(evidence) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "evidence is required")
	}
	if len(evidence) > maxReasonLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "evidence must be at most 1024 bytes")
	}

	var (
		property  *models.Property
		forfeited domain.Amount
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireVerifier(ctx); err != nil {
			return err
		}
		p, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := p.CanSlash(); err != nil {
			return err
		}
		forfeited = p.ApplySlash(evidence)
		if err := s.save(ctx, p); err != nil {
			return err
		}
		if !forfeited.IsZero() {
			if err := s.currentVault().Forfeit(ctx, s.handle, p.Owner, forfeited, s.currentTreasury()); err != nil {
				return err
			}
		}
		property = p
		return s.emit(ctx, events.PropertySlashed, id, map[string]string{
			"evidence":  evidence,
			"forfeited": forfeited.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementResolution("slashed")
	s.metrics.AddForfeited(forfeited.Uint64())
	return property, nil
}

// GetPropertyData returns the full property record.
func (s *Service) GetPropertyData(ctx context.Context, id domain.PropertyID) (*models.Property, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*models.Property, error) {
		return s.load(ctx, id)
	})
}

// GetPropertyStatus returns the status; unknown ids report StatusNone.
func (s *Service) GetPropertyStatus(ctx context.Context, id domain.PropertyID) (models.Status, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (models.Status, error) {
		p, err := s.store.FindByID(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.StatusNone, nil
		}
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load property")
		}
		return p.Status, nil
	})
}

// GetOwnerProperties lists the ids registered by owner in registration order.
func (s *Service) GetOwnerProperties(ctx context.Context, owner domain.Address) ([]domain.PropertyID, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) ([]domain.PropertyID, error) {
		ids, err := s.store.ListByOwner(ctx, owner)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list owner properties")
		}
		return ids, nil
	})
}

// GetPropertyByToken resolves an issued token back to its property. Untokenized
// properties carry the zero address, so it never resolves.
func (s *Service) GetPropertyByToken(ctx context.Context, token domain.Address) (*models.Property, error) {
	if token.IsZero() {
		return nil, dErrors.New(dErrors.CodePropertyNotFound, "no property for token")
	}
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (*models.Property, error) {
		p, err := s.store.FindByToken(ctx, token)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodePropertyNotFound, "no property for token")
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load property")
		}
		return p, nil
	})
}

func (s *Service) AddVerifier(ctx context.Context, verifier domain.Address) error {
	if verifier.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "verifier address is required")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireOwner(ctx); err != nil {
			return err
		}
		added, err := s.store.AddVerifier(ctx, verifier)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add verifier")
		}
		if !added {
			return nil
		}
		return s.emitVerifier(ctx, events.VerifierAdded, verifier)
	})
}

func (s *Service) RemoveVerifier(ctx context.Context, verifier domain.Address) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireOwner(ctx); err != nil {
			return err
		}
		removed, err := s.store.RemoveVerifier(ctx, verifier)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove verifier")
		}
		if !removed {
			return nil
		}
		return s.emitVerifier(ctx, events.VerifierRemoved, verifier)
	})
}

func (s *Service) IsVerifier(ctx context.Context, addr domain.Address) (bool, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) (bool, error) {
		ok, err := s.store.IsVerifier(ctx, addr)
		if err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verifier")
		}
		return ok, nil
	})
}

func (s *Service) ListVerifiers(ctx context.Context) ([]domain.Address, error) {
	return ledger.Read(ctx, s.tx, func(ctx context.Context) ([]domain.Address, error) {
		v, err := s.store.ListVerifiers(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifiers")
		}
		return v, nil
	})
}

// SetStakingVault replaces the vault collaborator.
func (s *Service) SetStakingVault(ctx context.Context, v Vault) error {
	if v == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "vault is required")
	}
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vault = v
	return nil
}

// SetTokenFactory replaces the factory collaborator.
func (s *Service) SetTokenFactory(ctx context.Context, f TokenFactory) error {
	if f == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "factory is required")
	}
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factory = f
	return nil
}

// SetTreasury changes where forfeited stake goes.
func (s *Service) SetTreasury(ctx context.Context, treasury domain.Address) error {
	if treasury.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "treasury address is required")
	}
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.treasury = treasury
	return nil
}

// Treasury returns the current forfeiture beneficiary.
func (s *Service) Treasury() domain.Address { return s.currentTreasury() }

func (s *Service) requireOwner(ctx context.Context) error {
	s.mu.RLock()
	owner := s.owner
	s.mu.RUnlock()
	if requestcontext.Caller(ctx) != owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the registry owner")
	}
	return nil
}

func (s *Service) requireVerifier(ctx context.Context) error {
	caller := requestcontext.Caller(ctx)
	ok, err := s.store.IsVerifier(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verifier")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotVerifier, "caller is not an authorized verifier")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id domain.PropertyID) (*models.Property, error) {
	p, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodePropertyNotFound, "property not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load property")
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p *models.Property) error {
	if err := s.store.Update(ctx, p); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save property")
	}
	return nil
}

func (s *Service) release(ctx context.Context, owner domain.Address, amount domain.Amount) error {
	if amount.IsZero() {
		return nil
	}
	return s.currentVault().Release(ctx, s.handle, owner, amount)
}

func (s *Service) currentVault() Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vault
}

func (s *Service) currentFactory() TokenFactory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factory
}

func (s *Service) currentTreasury() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.treasury
}

func (s *Service) emit(ctx context.Context, kind events.Kind, id domain.PropertyID, attrs map[string]string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Kind:       kind,
		Component:  events.ComponentRegistry,
		Subject:    id.String(),
		Attributes: attrs,
	})
}

func (s *Service) emitVerifier(ctx context.Context, kind events.Kind, verifier domain.Address) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, events.Event{
		Kind:       kind,
		Component:  events.ComponentRegistry,
		Subject:    verifier.String(),
		Attributes: map[string]string{"verifier": verifier.String()},
	})
}
