package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"landledger/internal/events"
	"landledger/internal/platform/config"
	"landledger/internal/registry/models"
	"landledger/internal/token"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/requestcontext"
)

var (
	operator = domain.DeriveAddress("operator")
	treasury = domain.DeriveAddress("treasury")
	feeSink  = domain.DeriveAddress("fee-recipient")
	usdc     = domain.DeriveAddress("usdc")
	alice    = domain.DeriveAddress("alice")
	bob      = domain.DeriveAddress("bob")
	verifier = domain.DeriveAddress("verifier")
	day0     = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
)

func testConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendMemory,
		Principals: config.Principals{
			Operator:     operator,
			Treasury:     treasury,
			FeeRecipient: feeSink,
			PaymentAsset: usdc,
			Verifiers:    []domain.Address{verifier},
		},
		Market: config.Market{SaleDuration: 30 * 24 * time.Hour},
	}
}

func parcel(survey string) models.PropertyMetadata {
	return models.PropertyMetadata{
		SurveyID:     survey,
		Location:     "Lot 7, Riverside",
		Latitude:     40_712_800,
		Longitude:    -74_006_000,
		Area:         1_000,
		DocumentHash: "QmDeedHash",
		Valuation:    6_900_000,
	}
}

// ScenarioSuite runs the ledger end to end on the memory deployment.
type ScenarioSuite struct {
	suite.Suite
	d *Deployment
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func (s *ScenarioSuite) SetupTest() {
	cfg := testConfig()
	d, err := NewMemory(cfg)
	s.Require().NoError(err)
	s.Require().NoError(d.Bootstrap(context.Background(), cfg.Principals))
	s.d = d

	for _, who := range []domain.Address{alice, bob} {
		s.Require().NoError(d.Payment.Faucet(s.as(operator, day0), who, 10_000_000))
	}
	s.Require().NoError(d.Payment.Approve(s.as(alice, day0), VaultAddress, 690_000))
	_, err = d.Vault.DepositStake(s.as(alice, day0), 690_000)
	s.Require().NoError(err)
}

func (s *ScenarioSuite) as(caller domain.Address, at time.Time) context.Context {
	return requestcontext.WithTime(requestcontext.WithCaller(context.Background(), caller), at)
}

func (s *ScenarioSuite) payment(holder domain.Address) domain.Amount {
	b, err := s.d.Payment.BalanceOf(context.Background(), holder)
	s.Require().NoError(err)
	return b
}

func (s *ScenarioSuite) tokenBalance(tokenAddr, holder domain.Address) domain.Amount {
	b, err := s.d.Tokens.BalanceOf(context.Background(), tokenAddr, holder)
	s.Require().NoError(err)
	return b
}

func (s *ScenarioSuite) register(survey string) *models.Property {
	p, err := s.d.Registry.RegisterProperty(s.as(alice, day0), parcel(survey), 345_000)
	s.Require().NoError(err)
	return p
}

func (s *ScenarioSuite) tokenize(survey string) (*models.Property, domain.Address) {
	p := s.register(survey)
	p, err := s.d.Registry.VerifyProperty(s.as(verifier, day0.Add(time.Hour)), p.ID, true, "deed matches survey")
	s.Require().NoError(err)
	return p, p.TokenAddress
}

func (s *ScenarioSuite) TestRegistration() {
	s.Run("sufficient stake leaves the property pending", func() {
		p := s.register("SURVEY-1")
		status, err := s.d.Registry.GetPropertyStatus(context.Background(), p.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, status)

		stake, err := s.d.Vault.GetStake(context.Background(), alice)
		s.Require().NoError(err)
		s.Equal(domain.Amount(345_000), stake.Locked)
	})

	s.Run("one unit short fails with insufficient stake", func() {
		_, err := s.d.Registry.RegisterProperty(s.as(alice, day0), parcel("SURVEY-2"), 344_999)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStake))
		ids, err := s.d.Registry.GetOwnerProperties(context.Background(), alice)
		s.Require().NoError(err)
		s.Len(ids, 1)
	})
}

func (s *ScenarioSuite) TestApprovalTokenizes() {
	before := s.payment(alice)
	p, tokenAddr := s.tokenize("SURVEY-1")

	s.Equal(models.StatusTokenized, p.Status)
	s.Zero(p.StakeOutstanding)

	t, err := s.d.Factory.GetToken(context.Background(), tokenAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(690_000), t.TotalSupply)
	s.Equal(domain.Amount(351_900), t.OwnerAllocation)
	s.Equal(domain.Amount(17_250), t.PlatformFee)
	s.Equal(domain.Amount(320_850), t.PublicSale)
	s.Equal(token.StatusVerified, t.Status)

	s.Equal(domain.Amount(351_900), s.tokenBalance(tokenAddr, alice))
	s.Equal(domain.Amount(17_250), s.tokenBalance(tokenAddr, feeSink))
	s.Equal(domain.Amount(320_850), s.tokenBalance(tokenAddr, FactoryAddress))

	stake, err := s.d.Vault.GetStake(context.Background(), alice)
	s.Require().NoError(err)
	s.Zero(stake.Locked)
	s.Equal(domain.Amount(345_000), stake.Amount)
	s.Equal(before+345_000, s.payment(alice), "released stake is paid back to the owner")

	byToken, err := s.d.Registry.GetPropertyByToken(context.Background(), tokenAddr)
	s.Require().NoError(err)
	s.Equal(p.ID, byToken.ID)
}

func (s *ScenarioSuite) TestPrimarySaleCap() {
	_, tokenAddr := s.tokenize("SURVEY-1")
	opCtx := s.as(operator, day0.Add(2*time.Hour))
	s.Require().NoError(s.d.Factory.TransferToPrimaryMarket(opCtx, tokenAddr, domain.ZeroAddress, 320_850))

	sale, err := s.d.Market.StartSale(opCtx, tokenAddr, 320_850, 10, alice)
	s.Require().NoError(err)
	s.Equal(domain.Amount(32_085), sale.BuyerCap())

	buyAt := s.as(bob, day0.Add(3*time.Hour))
	s.Require().NoError(s.d.Payment.Approve(buyAt, MarketAddress, 1_000_000))

	_, err = s.d.Market.BuyTokens(buyAt, tokenAddr, 32_086)
	s.True(dErrors.HasCode(err, dErrors.CodeCapExceeded))

	purchase, err := s.d.Market.BuyTokens(buyAt, tokenAddr, 32_085)
	s.Require().NoError(err)
	s.Equal(domain.Amount(32_085), purchase.Amount)
	s.Equal(domain.Amount(32_085), s.tokenBalance(tokenAddr, bob))
	s.Equal(domain.Amount(10_000_000-320_850), s.payment(bob))

	_, err = s.d.Market.BuyTokens(buyAt, tokenAddr, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeCapExceeded))
	s.Equal(domain.Amount(32_085), s.tokenBalance(tokenAddr, bob))
}

func (s *ScenarioSuite) TestSaleWindowAndSettlement() {
	_, tokenAddr := s.tokenize("SURVEY-1")
	opCtx := s.as(operator, day0.Add(2*time.Hour))
	s.Require().NoError(s.d.Factory.TransferToPrimaryMarket(opCtx, tokenAddr, domain.ZeroAddress, 320_850))
	sale, err := s.d.Market.StartSale(opCtx, tokenAddr, 320_850, 10, alice)
	s.Require().NoError(err)

	s.Require().NoError(s.d.Payment.Approve(s.as(bob, day0), MarketAddress, 1_000_000))
	_, err = s.d.Market.BuyTokens(s.as(bob, sale.EndTime.Add(-time.Minute)), tokenAddr, 1_000)
	s.Require().NoError(err)

	afterEnd := sale.EndTime.Add(time.Second)
	_, err = s.d.Market.BuyTokens(s.as(bob, afterEnd), tokenAddr, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeSaleEnded))

	err = s.d.Factory.EnableTrading(s.as(operator, afterEnd), tokenAddr)
	s.True(dErrors.HasCode(err, dErrors.CodeSaleStillRunning), "trading waits for settlement")

	settlement, err := s.d.Market.FinalizeSale(s.as(operator, afterEnd), tokenAddr)
	s.Require().NoError(err)
	s.Equal(domain.Amount(319_850), settlement.Unsold)
	s.Equal(domain.Amount(10_000), settlement.Proceeds)

	err = s.d.Tokens.Transfer(s.as(bob, afterEnd), tokenAddr, bob, alice, 10)
	s.True(dErrors.HasCode(err, dErrors.CodeTransferLocked))

	s.Require().NoError(s.d.Factory.EnableTrading(s.as(operator, afterEnd), tokenAddr))
	s.Require().NoError(s.d.Tokens.Transfer(s.as(bob, afterEnd), tokenAddr, bob, alice, 10))
}

func (s *ScenarioSuite) TestRejectionRefunds() {
	p := s.register("SURVEY-1")
	before := s.payment(alice)
	decideCtx := s.as(verifier, day0.Add(time.Hour))

	rejected, err := s.d.Registry.VerifyProperty(decideCtx, p.ID, false, "survey does not match deed")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, rejected.Status)

	stake, err := s.d.Vault.GetStake(context.Background(), alice)
	s.Require().NoError(err)
	s.Zero(stake.Locked)
	s.Equal(domain.Amount(345_000), stake.Amount)
	s.Equal(before+345_000, s.payment(alice))

	_, err = s.d.Registry.VerifyProperty(decideCtx, p.ID, true, "")
	s.True(dErrors.HasCode(err, dErrors.CodePropertyNotPending))
}

func (s *ScenarioSuite) TestSlashing() {
	const evidence = "forged deed; notary #4411 denies signature"

	s.Run("tokenized property keeps nothing to forfeit", func() {
		p, _ := s.tokenize("SURVEY-1")
		slashed, err := s.d.Registry.SlashProperty(s.as(verifier, day0.Add(4*time.Hour)), p.ID, evidence)
		s.Require().NoError(err)
		s.Equal(models.StatusSlashed, slashed.Status)
		s.Zero(s.payment(treasury))

		logged, err := s.d.EventLog.ListByKind(context.Background(), events.PropertySlashed)
		s.Require().NoError(err)
		s.Require().Len(logged, 1)
		s.Equal(evidence, logged[0].Attr("evidence"))
	})

	s.Run("pending property forfeits its stake to the treasury", func() {
		p := s.register("SURVEY-2")
		_, err := s.d.Registry.SlashProperty(s.as(verifier, day0.Add(5*time.Hour)), p.ID, evidence)
		s.Require().NoError(err)
		s.Equal(domain.Amount(345_000), s.payment(treasury))

		stake, err := s.d.Vault.GetStake(context.Background(), alice)
		s.Require().NoError(err)
		s.Zero(stake.Amount, "the first stake was released on tokenization")

		_, err = s.d.Registry.SlashProperty(s.as(verifier, day0.Add(6*time.Hour)), p.ID, evidence)
		s.True(dErrors.HasCode(err, dErrors.CodePropertyNotSlashable))
	})
}

// Justification: Deposits must equal releases plus forfeitures plus what the
// vault still holds, across a mix of outcomes.
func (s *ScenarioSuite) TestCollateralConservation() {
	walletBefore := s.payment(alice)
	p1 := s.register("SURVEY-1")
	p2 := s.register("SURVEY-2")
	_, err := s.d.Registry.VerifyProperty(s.as(verifier, day0), p1.ID, false, "")
	s.Require().NoError(err)
	_, err = s.d.Registry.SlashProperty(s.as(verifier, day0), p2.ID, "evidence")
	s.Require().NoError(err)

	custody, err := s.d.Vault.Custody(context.Background())
	s.Require().NoError(err)
	stake, err := s.d.Vault.GetStake(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal(stake.Amount, custody)
	released := s.payment(alice) - walletBefore
	s.Equal(domain.Amount(345_000), released)
	s.Equal(domain.Amount(690_000), custody+released+s.payment(treasury))
}
