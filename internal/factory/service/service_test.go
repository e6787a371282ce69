package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"landledger/internal/asset"
	assetmemory "landledger/internal/asset/store/memory"
	"landledger/internal/events"
	eventmemory "landledger/internal/events/store/memory"
	"landledger/internal/factory/store/memory"
	"landledger/internal/ledger"
	"landledger/internal/registry/models"
	"landledger/internal/token"
	tokenmemory "landledger/internal/token/store/memory"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/requestcontext"
)

var (
	factoryAddr = domain.DeriveAddress("factory")
	operator    = domain.DeriveAddress("operator")
	feeSink     = domain.DeriveAddress("fee-recipient")
	marketAddr  = domain.DeriveAddress("market")
	alice       = domain.DeriveAddress("alice")
	propertyID  = domain.PropertyID(domain.Keccak256([]byte("parcel-7")))
	issuedAt    = time.Unix(1_700_000_000, 0).UTC()
)

func metadata() models.PropertyMetadata {
	return models.PropertyMetadata{
		SurveyID:     "SRV-2024-001",
		Location:     "Lot 7, Riverside",
		Area:         1_200,
		DocumentHash: "QmTitleDeed",
		Valuation:    6_900_000,
	}
}

// saleBook records which tokens have an open primary sale.
type saleBook map[domain.Address]bool

func (b saleBook) SaleOpen(_ context.Context, token domain.Address) (bool, error) {
	return b[token], nil
}

type FactoryServiceSuite struct {
	suite.Suite
	ctx      context.Context
	opCtx    context.Context
	registry capability.Handle
	tokens   *token.Service
	events   *eventmemory.Store
	sales    saleBook
	service  *Service
}

func TestFactoryServiceSuite(t *testing.T) {
	suite.Run(t, new(FactoryServiceSuite))
}

func (s *FactoryServiceSuite) SetupTest() {
	runner := ledger.NewMemory()
	balances, err := asset.New(assetmemory.New(), runner)
	s.Require().NoError(err)
	s.tokens, err = token.NewService(tokenmemory.New(), balances, runner)
	s.Require().NoError(err)
	s.events = eventmemory.New()
	publisher, err := events.NewPublisher(s.events)
	s.Require().NoError(err)
	s.registry = capability.Mint("registry")
	s.sales = saleBook{}

	s.service, err = New(memory.New(), s.tokens, runner, Config{
		Address:      factoryAddr,
		Owner:        operator,
		FeeRecipient: feeSink,
		Market:       marketAddr,
	}, s.registry, WithPublisher(publisher), WithSales(s.sales))
	s.Require().NoError(err)

	s.ctx = requestcontext.WithTime(context.Background(), issuedAt)
	s.opCtx = requestcontext.WithCaller(s.ctx, operator)
}

func (s *FactoryServiceSuite) create() domain.Address {
	addr, err := s.service.CreateLandToken(s.ctx, s.registry, alice, metadata(), propertyID)
	s.Require().NoError(err)
	return addr
}

func (s *FactoryServiceSuite) balance(tokenAddr, holder domain.Address) domain.Amount {
	b, err := s.tokens.BalanceOf(s.ctx, tokenAddr, holder)
	s.Require().NoError(err)
	return b
}

func (s *FactoryServiceSuite) TestCreateLandToken() {
	s.Run("refuses callers without the registry handle", func() {
		_, err := s.service.CreateLandToken(s.ctx, capability.Mint("registry"), alice, metadata(), propertyID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotRegistry))
	})

	s.Run("issues and distributes the supply", func() {
		addr := s.create()
		t, err := s.service.GetToken(s.ctx, addr)
		s.Require().NoError(err)
		s.Equal(token.StatusVerified, t.Status)
		s.Equal(domain.Amount(690_000), t.TotalSupply)
		s.Equal(propertyID, t.PropertyID)

		s.Equal(domain.Amount(351_900), s.balance(addr, alice))
		s.Equal(domain.Amount(17_250), s.balance(addr, feeSink))
		s.Equal(domain.Amount(320_850), s.balance(addr, factoryAddr))

		mapped, err := s.service.TokenForProperty(s.ctx, propertyID)
		s.Require().NoError(err)
		s.Equal(addr, mapped)
		count, _ := s.service.GetTokenCount(s.ctx)
		s.Equal(uint64(1), count)
		first, err := s.service.AllTokens(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(addr, first)

		created, _ := s.events.ListByKind(s.ctx, events.TokenCreated)
		s.Require().Len(created, 1)
		s.Equal("690000", created[0].Attr("total_supply"))
	})

	s.Run("one token per property", func() {
		_, err := s.service.CreateLandToken(s.ctx, s.registry, alice, metadata(), propertyID)
		s.True(dErrors.HasCode(err, dErrors.CodeTokenAlreadyExists))
		count, _ := s.service.GetTokenCount(s.ctx)
		s.Equal(uint64(1), count)
	})

	s.Run("index out of range", func() {
		_, err := s.service.AllTokens(s.ctx, 5)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// TestAddressDerivation documents that the preview does not match issuance
// while the predictor does.
func (s *FactoryServiceSuite) TestAddressDerivation() {
	preview := s.service.ComputeTokenAddress(s.ctx, propertyID)
	predicted := s.service.PredictTokenAddress(propertyID, issuedAt, 0)

	addr := s.create()
	s.Equal(predicted, addr)
	s.NotEqual(preview, addr)
}

func (s *FactoryServiceSuite) TestTransferToPrimaryMarket() {
	addr := s.create()

	s.Run("owner only", func() {
		err := s.service.TransferToPrimaryMarket(requestcontext.WithCaller(s.ctx, alice), addr, marketAddr, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("unknown token", func() {
		err := s.service.TransferToPrimaryMarket(s.opCtx, domain.DeriveAddress("rogue"), marketAddr, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeTokenNotFromFactory))
	})

	s.Run("cannot move more than the factory holds", func() {
		err := s.service.TransferToPrimaryMarket(s.opCtx, addr, marketAddr, 320_851)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFactoryBalance))
	})

	s.Run("moves tokens to the default market and lets it forward", func() {
		s.Require().NoError(s.service.TransferToPrimaryMarket(s.opCtx, addr, domain.ZeroAddress, 320_850))
		s.Equal(domain.Amount(320_850), s.balance(addr, marketAddr))
		s.Zero(s.balance(addr, factoryAddr))

		s.Require().NoError(s.tokens.Transfer(s.ctx, addr, marketAddr, alice, 10))
		err := s.tokens.Transfer(s.ctx, addr, alice, marketAddr, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeTransferLocked), "holders stay locked")
	})

	s.Run("trading unlocks holders", func() {
		s.Require().NoError(s.service.EnableTrading(s.opCtx, addr))
		s.Require().NoError(s.tokens.Transfer(s.ctx, addr, alice, marketAddr, 10))
		s.Error(s.service.EnableTrading(s.opCtx, addr), "already trading")
	})
}

func (s *FactoryServiceSuite) TestEnableTrading_WaitsForSale() {
	addr := s.create()
	s.sales[addr] = true

	err := s.service.EnableTrading(s.opCtx, addr)
	s.True(dErrors.HasCode(err, dErrors.CodeSaleStillRunning))
	t, err := s.tokens.Get(s.ctx, addr)
	s.Require().NoError(err)
	s.Equal(token.StatusVerified, t.Status)

	s.sales[addr] = false
	s.Require().NoError(s.service.EnableTrading(s.opCtx, addr))
	traded, _ := s.events.ListByKind(s.ctx, events.TradingEnabled)
	s.Len(traded, 1)
}

func (s *FactoryServiceSuite) TestSetFeeRecipient() {
	s.True(dErrors.HasCode(s.service.SetFeeRecipient(requestcontext.WithCaller(s.ctx, alice), alice), dErrors.CodeNotOwner))
	s.True(dErrors.HasCode(s.service.SetFeeRecipient(s.opCtx, domain.ZeroAddress), dErrors.CodeInvalidInput))

	next := domain.DeriveAddress("new-fee")
	s.Require().NoError(s.service.SetFeeRecipient(s.opCtx, next))
	addr := s.create()
	s.Equal(domain.Amount(17_250), s.balance(addr, next))
}
