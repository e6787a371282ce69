//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"landledger/internal/platform/config"
	"landledger/internal/registry/models"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/requestcontext"
	"landledger/pkg/testutil/containers"
)

type PostgresDeploymentSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	cfg      *config.Config
	d        *Deployment
}

func TestPostgresDeploymentSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresDeploymentSuite))
}

func (s *PostgresDeploymentSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresDeploymentSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.ResetLedger(ctx))

	s.cfg = testConfig()
	s.cfg.Backend = config.BackendPostgres
	s.cfg.Postgres.TxTimeout = 5 * time.Second
	d, err := NewPostgres(s.cfg, s.postgres.DB)
	s.Require().NoError(err)
	s.Require().NoError(d.Bootstrap(ctx, s.cfg.Principals))
	s.d = d

	s.Require().NoError(d.Payment.Faucet(s.as(operator), alice, 1_000_000))
	s.Require().NoError(d.Payment.Approve(s.as(alice), VaultAddress, 690_000))
	_, err = d.Vault.DepositStake(s.as(alice), 690_000)
	s.Require().NoError(err)
}

func (s *PostgresDeploymentSuite) as(caller domain.Address) context.Context {
	return requestcontext.WithTime(requestcontext.WithCaller(context.Background(), caller), day0)
}

func (s *PostgresDeploymentSuite) TestBootstrapIsIdempotent() {
	s.Require().NoError(s.d.Bootstrap(context.Background(), s.cfg.Principals))
	verifiers, err := s.d.Registry.ListVerifiers(context.Background())
	s.Require().NoError(err)
	s.Equal([]domain.Address{verifier}, verifiers)
}

func (s *PostgresDeploymentSuite) TestTokenizationPersists() {
	p, err := s.d.Registry.RegisterProperty(s.as(alice), parcel("PG-1"), 345_000)
	s.Require().NoError(err)
	p, err = s.d.Registry.VerifyProperty(s.as(verifier), p.ID, true, "")
	s.Require().NoError(err)
	s.Equal(models.StatusTokenized, p.Status)

	reloaded, err := s.d.Registry.GetPropertyData(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Equal(p.TokenAddress, reloaded.TokenAddress)
	s.Equal(parcel("PG-1"), reloaded.Metadata)

	held, err := s.d.Tokens.BalanceOf(context.Background(), p.TokenAddress, alice)
	s.Require().NoError(err)
	s.Equal(domain.Amount(351_900), held)

	count, err := s.d.Factory.GetTokenCount(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

// Justification: A failed operation must leave no partial rows behind, which
// on Postgres depends on every store joining the request transaction.
func (s *PostgresDeploymentSuite) TestFailedRegistrationRollsBack() {
	// Above the minimum but beyond the deposit: the record is written, then the lock fails.
	_, err := s.d.Registry.RegisterProperty(s.as(alice), parcel("PG-2"), 700_000)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStake))

	ids, err := s.d.Registry.GetOwnerProperties(context.Background(), alice)
	s.Require().NoError(err)
	s.Empty(ids)

	stake, err := s.d.Vault.GetStake(context.Background(), alice)
	s.Require().NoError(err)
	s.Zero(stake.Locked)
}

func (s *PostgresDeploymentSuite) TestZeroTokenDoesNotResolvePendingProperty() {
	_, err := s.d.Registry.RegisterProperty(s.as(alice), parcel("PG-3"), 345_000)
	s.Require().NoError(err)

	_, err = s.d.Registry.GetPropertyByToken(context.Background(), domain.ZeroAddress)
	s.True(dErrors.HasCode(err, dErrors.CodePropertyNotFound))
}

func (s *PostgresDeploymentSuite) TestOutboxCollectsEvents() {
	pending, err := s.pendingOutbox()
	s.Require().NoError(err)
	s.Positive(pending, "verifier bootstrap and deposit are recorded")
}

func (s *PostgresDeploymentSuite) pendingOutbox() (int, error) {
	var n int
	err := s.postgres.DB.QueryRowContext(context.Background(),
		`SELECT count(*) FROM outbox WHERE published_at IS NULL`).Scan(&n)
	return n, err
}
