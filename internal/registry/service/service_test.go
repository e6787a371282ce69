package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Vault,TokenFactory,EventPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"landledger/internal/events"
	eventmemory "landledger/internal/events/store/memory"
	"landledger/internal/ledger"
	"landledger/internal/registry/metrics"
	"landledger/internal/registry/models"
	"landledger/internal/registry/service/mocks"
	"landledger/internal/registry/store/memory"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/requestcontext"
)

var (
	admin     = domain.DeriveAddress("admin")
	treasury  = domain.DeriveAddress("treasury")
	alice     = domain.DeriveAddress("alice")
	verifier  = domain.DeriveAddress("verifier")
	mallory   = domain.DeriveAddress("mallory")
	tokenAddr = domain.DeriveAddress("token")
	now       = time.Unix(1_700_000_000, 0).UTC()
)

func scenarioMetadata() models.PropertyMetadata {
	return models.PropertyMetadata{
		SurveyID:     "SRV-2024-001",
		Location:     "Lot 7, Riverside",
		Latitude:     -1_292_066,
		Longitude:    36_821_945,
		Area:         1_200,
		DocumentHash: "QmTitleDeed",
		Valuation:    6_900_000,
	}
}

type RegistryServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	vault    *mocks.MockVault
	factory  *mocks.MockTokenFactory
	store    *memory.Store
	events   *eventmemory.Store
	metrics  *metrics.Metrics
	handle   capability.Handle
	service  *Service
	adminCtx context.Context
	aliceCtx context.Context
	verCtx   context.Context
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.vault = mocks.NewMockVault(s.ctrl)
	s.factory = mocks.NewMockTokenFactory(s.ctrl)
	s.store = memory.New()
	s.events = eventmemory.New()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.handle = capability.Mint("registry")

	publisher, err := events.NewPublisher(s.events)
	s.Require().NoError(err)
	svc, err := New(s.store, s.vault, s.factory, ledger.NewMemory(), s.handle,
		Config{Owner: admin, Treasury: treasury},
		WithPublisher(publisher), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.service = svc

	base := requestcontext.WithTime(context.Background(), now)
	s.adminCtx = requestcontext.WithCaller(base, admin)
	s.aliceCtx = requestcontext.WithCaller(base, alice)
	s.verCtx = requestcontext.WithCaller(base, verifier)
	s.Require().NoError(s.service.AddVerifier(s.adminCtx, verifier))
}

func (s *RegistryServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RegistryServiceSuite) register() *models.Property {
	s.vault.EXPECT().Lock(gomock.Any(), s.handle, alice, domain.Amount(345_000)).Return(nil)
	p, err := s.service.RegisterProperty(s.aliceCtx, scenarioMetadata(), 345_000)
	s.Require().NoError(err)
	return p
}

func (s *RegistryServiceSuite) TestCalculateMinStake() {
	got, err := CalculateMinStake(6_900_000)
	s.Require().NoError(err)
	s.Equal(domain.Amount(345_000), got)

	got, err = CalculateMinStake(1)
	s.Require().NoError(err)
	s.Equal(domain.Amount(1), got, "rounds up")
}

func (s *RegistryServiceSuite) TestRegisterProperty() {
	s.Run("stake below minimum is rejected without touching the vault", func() {
		_, err := s.service.RegisterProperty(s.aliceCtx, scenarioMetadata(), 344_999)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStake))
	})

	s.Run("invalid metadata is rejected", func() {
		m := scenarioMetadata()
		m.SurveyID = " "
		_, err := s.service.RegisterProperty(s.aliceCtx, m, 345_000)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidMetadata))
	})

	s.Run("locks stake and records a pending property", func() {
		p := s.register()
		s.Equal(models.StatusPending, p.Status)
		s.Equal(alice, p.Owner)
		s.Equal(domain.Amount(345_000), p.StakeOutstanding)
		s.Equal(now, p.RegisteredAt)

		ids, err := s.service.GetOwnerProperties(s.aliceCtx, alice)
		s.Require().NoError(err)
		s.Equal([]domain.PropertyID{p.ID}, ids)

		registered, _ := s.events.ListByKind(s.aliceCtx, events.PropertyRegistered)
		s.Len(registered, 1)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PropertiesRegistered))
	})

	s.Run("identical metadata yields a distinct id", func() {
		first, _ := s.service.GetOwnerProperties(s.aliceCtx, alice)
		p := s.register()
		s.NotEqual(first[0], p.ID)
	})

	s.Run("vault failure rolls back the registration", func() {
		before, _ := s.service.GetOwnerProperties(s.aliceCtx, alice)
		s.vault.EXPECT().Lock(gomock.Any(), s.handle, alice, gomock.Any()).
			Return(dErrors.New(dErrors.CodeInsufficientStake, "not enough"))
		_, err := s.service.RegisterProperty(s.aliceCtx, scenarioMetadata(), 345_000)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStake))

		after, _ := s.service.GetOwnerProperties(s.aliceCtx, alice)
		s.Equal(before, after)
	})
}

// TestVerifyProperty covers approval and rejection.
//
// Justification: every resolution must release exactly the outstanding stake
// once, and approval must record the issued token.
func (s *RegistryServiceSuite) TestVerifyProperty() {
	s.Run("non-verifier is refused", func() {
		p := s.register()
		_, err := s.service.VerifyProperty(requestcontext.WithCaller(s.aliceCtx, mallory), p.ID, true, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotVerifier))
	})

	s.Run("unknown property", func() {
		_, err := s.service.VerifyProperty(s.verCtx, domain.PropertyID{1}, true, "")
		s.True(dErrors.HasCode(err, dErrors.CodePropertyNotFound))
	})

	s.Run("approval tokenizes and releases stake", func() {
		p := s.register()
		gomock.InOrder(
			s.factory.EXPECT().CreateLandToken(gomock.Any(), s.handle, alice, p.Metadata, p.ID).Return(tokenAddr, nil),
			s.vault.EXPECT().Release(gomock.Any(), s.handle, alice, domain.Amount(345_000)).Return(nil),
		)
		got, err := s.service.VerifyProperty(s.verCtx, p.ID, true, "")
		s.Require().NoError(err)
		s.Equal(models.StatusTokenized, got.Status)
		s.Equal(tokenAddr, got.TokenAddress)
		s.Zero(got.StakeOutstanding)

		byToken, err := s.service.GetPropertyByToken(s.verCtx, tokenAddr)
		s.Require().NoError(err)
		s.Equal(p.ID, byToken.ID)

		_, err = s.service.VerifyProperty(s.verCtx, p.ID, true, "")
		s.True(dErrors.HasCode(err, dErrors.CodePropertyNotPending), "no double resolution")
	})

	s.Run("rejection releases stake and records reason", func() {
		p := s.register()
		s.vault.EXPECT().Release(gomock.Any(), s.handle, alice, domain.Amount(345_000)).Return(nil)
		got, err := s.service.VerifyProperty(s.verCtx, p.ID, false, "survey mismatch")
		s.Require().NoError(err)
		s.Equal(models.StatusRejected, got.Status)
		s.Equal("survey mismatch", got.RejectionReason)
	})

	s.Run("factory failure leaves the property pending", func() {
		p := s.register()
		s.factory.EXPECT().CreateLandToken(gomock.Any(), s.handle, alice, p.Metadata, p.ID).
			Return(domain.ZeroAddress, errors.New("boom"))
		_, err := s.service.VerifyProperty(s.verCtx, p.ID, true, "")
		s.Require().Error(err)

		status, err := s.service.GetPropertyStatus(s.verCtx, p.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, status)
	})

	s.Run("concurrent reads never observe an approval that rolls back", func() {
		p := s.register()
		issuing := make(chan struct{})
		fail := make(chan struct{})
		s.factory.EXPECT().CreateLandToken(gomock.Any(), s.handle, alice, p.Metadata, p.ID).
			DoAndReturn(func(context.Context, capability.Handle, domain.Address, models.PropertyMetadata, domain.PropertyID) (domain.Address, error) {
				close(issuing)
				<-fail
				return domain.ZeroAddress, errors.New("issuance failed")
			})

		verified := make(chan error, 1)
		go func() {
			_, err := s.service.VerifyProperty(s.verCtx, p.ID, true, "")
			verified <- err
		}()
		<-issuing

		observed := make(chan models.Status, 1)
		go func() {
			status, _ := s.service.GetPropertyStatus(s.aliceCtx, p.ID)
			observed <- status
		}()

		early := false
		select {
		case status := <-observed:
			early = true
			s.Failf("read completed inside an open transaction", "observed %q", status)
		case <-time.After(50 * time.Millisecond):
		}
		close(fail)

		s.Require().Error(<-verified)
		if !early {
			s.Equal(models.StatusPending, <-observed)
		}
	})
}

func (s *RegistryServiceSuite) TestSlashProperty() {
	s.Run("requires evidence", func() {
		p := s.register()
		_, err := s.service.SlashProperty(s.verCtx, p.ID, "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("pending property forfeits its stake to the treasury", func() {
		p := s.register()
		s.vault.EXPECT().Forfeit(gomock.Any(), s.handle, alice, domain.Amount(345_000), treasury).Return(nil)
		got, err := s.service.SlashProperty(s.verCtx, p.ID, "forged deed")
		s.Require().NoError(err)
		s.Equal(models.StatusSlashed, got.Status)
		s.Equal("forged deed", got.SlashEvidence)

		_, err = s.service.SlashProperty(s.verCtx, p.ID, "again")
		s.True(dErrors.HasCode(err, dErrors.CodePropertyNotSlashable))
	})

	s.Run("tokenized property has nothing left to forfeit", func() {
		p := s.register()
		s.factory.EXPECT().CreateLandToken(gomock.Any(), s.handle, alice, p.Metadata, p.ID).Return(tokenAddr, nil)
		s.vault.EXPECT().Release(gomock.Any(), s.handle, alice, domain.Amount(345_000)).Return(nil)
		_, err := s.service.VerifyProperty(s.verCtx, p.ID, true, "")
		s.Require().NoError(err)

		got, err := s.service.SlashProperty(s.verCtx, p.ID, "fraud found later")
		s.Require().NoError(err)
		s.Equal(models.StatusSlashed, got.Status)
		s.Equal(tokenAddr, got.TokenAddress)
	})

	s.Run("rejected property cannot be slashed", func() {
		p := s.register()
		s.vault.EXPECT().Release(gomock.Any(), s.handle, alice, gomock.Any()).Return(nil)
		_, err := s.service.VerifyProperty(s.verCtx, p.ID, false, "no")
		s.Require().NoError(err)
		_, err = s.service.SlashProperty(s.verCtx, p.ID, "late")
		s.True(dErrors.HasCode(err, dErrors.CodePropertyNotSlashable))
	})
}

func (s *RegistryServiceSuite) TestAdministration() {
	s.Run("only the owner manages verifiers", func() {
		err := s.service.AddVerifier(s.aliceCtx, mallory)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
		err = s.service.RemoveVerifier(s.aliceCtx, verifier)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("adding twice is idempotent", func() {
		s.Require().NoError(s.service.AddVerifier(s.adminCtx, verifier))
		list, err := s.service.ListVerifiers(s.adminCtx)
		s.Require().NoError(err)
		s.Len(list, 1)
		added, _ := s.events.ListByKind(s.adminCtx, events.VerifierAdded)
		s.Len(added, 1)
	})

	s.Run("removed verifier loses access", func() {
		s.Require().NoError(s.service.RemoveVerifier(s.adminCtx, verifier))
		ok, err := s.service.IsVerifier(s.adminCtx, verifier)
		s.Require().NoError(err)
		s.False(ok)
		_, err = s.service.SlashProperty(s.verCtx, domain.PropertyID{1}, "x")
		s.True(dErrors.HasCode(err, dErrors.CodeNotVerifier))
	})

	s.Run("collaborators are owner-only", func() {
		s.True(dErrors.HasCode(s.service.SetTreasury(s.aliceCtx, alice), dErrors.CodeNotOwner))
		s.True(dErrors.HasCode(s.service.SetStakingVault(s.aliceCtx, s.vault), dErrors.CodeNotOwner))
		s.True(dErrors.HasCode(s.service.SetTokenFactory(s.aliceCtx, s.factory), dErrors.CodeNotOwner))
		s.True(dErrors.HasCode(s.service.SetTreasury(s.adminCtx, domain.ZeroAddress), dErrors.CodeInvalidInput))

		s.Require().NoError(s.service.SetTreasury(s.adminCtx, mallory))
		s.Equal(mallory, s.service.Treasury())
	})
}

func (s *RegistryServiceSuite) TestGetPropertyByToken_ZeroAddressIsNotFound() {
	s.register()
	_, err := s.service.GetPropertyByToken(s.aliceCtx, domain.ZeroAddress)
	s.True(dErrors.HasCode(err, dErrors.CodePropertyNotFound))
}

func (s *RegistryServiceSuite) TestGetPropertyStatus_UnknownIsNone() {
	status, err := s.service.GetPropertyStatus(s.aliceCtx, domain.PropertyID{9})
	s.Require().NoError(err)
	s.Equal(models.StatusNone, status)

	_, err = s.service.GetPropertyData(s.aliceCtx, domain.PropertyID{9})
	s.True(dErrors.HasCode(err, dErrors.CodePropertyNotFound))
}

func TestNew_RequiresCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault := mocks.NewMockVault(ctrl)
	factory := mocks.NewMockTokenFactory(ctrl)
	runner := ledger.NewMemory()
	h := capability.Mint("registry")
	cfg := Config{Owner: admin, Treasury: treasury}

	_, err := New(nil, vault, factory, runner, h, cfg)
	assert.Error(t, err)
	_, err = New(memory.New(), nil, factory, runner, h, cfg)
	assert.Error(t, err)
	_, err = New(memory.New(), vault, factory, runner, capability.Handle{}, cfg)
	assert.Error(t, err)
	_, err = New(memory.New(), vault, factory, runner, h, Config{Owner: admin})
	assert.Error(t, err)

	svc, err := New(memory.New(), vault, factory, runner, h, cfg)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
