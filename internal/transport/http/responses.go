package httptransport

import (
	"time"

	marketmodels "landledger/internal/market/models"
	"landledger/internal/registry/models"
	"landledger/internal/token"
	vaultmodels "landledger/internal/vault/models"
	"landledger/pkg/domain"
)

type BalanceResponse struct {
	Address domain.Address `json:"address"`
	Balance domain.Amount  `json:"balance"`
}

type AllowanceResponse struct {
	Owner     domain.Address `json:"owner"`
	Spender   domain.Address `json:"spender"`
	Allowance domain.Amount  `json:"allowance"`
}

type StakeResponse struct {
	Owner     domain.Address `json:"owner"`
	Amount    domain.Amount  `json:"amount"`
	Locked    domain.Amount  `json:"locked"`
	Available domain.Amount  `json:"available"`
}

func toStakeResponse(s *vaultmodels.Stake) *StakeResponse {
	return &StakeResponse{
		Owner:     s.Owner,
		Amount:    s.Amount,
		Locked:    s.Locked,
		Available: s.Available(),
	}
}

type MinStakeResponse struct {
	Valuation domain.Amount `json:"valuation"`
	MinStake  domain.Amount `json:"min_stake"`
}

type PropertyResponse struct {
	ID               domain.PropertyID `json:"id"`
	Owner            domain.Address    `json:"owner"`
	Metadata         MetadataRequest   `json:"metadata"`
	Status           models.Status     `json:"status"`
	TokenAddress     *domain.Address   `json:"token_address,omitempty"`
	RegisteredAt     time.Time         `json:"registered_at"`
	VerifiedAt       *time.Time        `json:"verified_at,omitempty"`
	StakeAmount      domain.Amount     `json:"stake_amount"`
	StakeOutstanding domain.Amount     `json:"stake_outstanding"`
	RejectionReason  string            `json:"rejection_reason,omitempty"`
	SlashEvidence    string            `json:"slash_evidence,omitempty"`
}

func toPropertyResponse(p *models.Property) *PropertyResponse {
	resp := &PropertyResponse{
		ID:    p.ID,
		Owner: p.Owner,
		Metadata: MetadataRequest{
			SurveyID:     p.Metadata.SurveyID,
			Location:     p.Metadata.Location,
			Latitude:     p.Metadata.Latitude,
			Longitude:    p.Metadata.Longitude,
			Area:         p.Metadata.Area,
			DocumentHash: p.Metadata.DocumentHash,
			Valuation:    p.Metadata.Valuation,
		},
		Status:           p.Status,
		RegisteredAt:     p.RegisteredAt,
		StakeAmount:      p.StakeAmount,
		StakeOutstanding: p.StakeOutstanding,
		RejectionReason:  p.RejectionReason,
		SlashEvidence:    p.SlashEvidence,
	}
	if !p.TokenAddress.IsZero() {
		addr := p.TokenAddress
		resp.TokenAddress = &addr
	}
	if !p.VerifiedAt.IsZero() {
		at := p.VerifiedAt
		resp.VerifiedAt = &at
	}
	return resp
}

type StatusResponse struct {
	ID     domain.PropertyID `json:"id"`
	Status models.Status     `json:"status"`
}

type PropertyListResponse struct {
	Owner      domain.Address      `json:"owner"`
	Properties []domain.PropertyID `json:"properties"`
}

type AddressListResponse struct {
	Addresses []domain.Address `json:"addresses"`
	Count     int              `json:"count"`
}

func toAddressList(addrs []domain.Address) *AddressListResponse {
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return &AddressListResponse{Addresses: addrs, Count: len(addrs)}
}

type AddressResponse struct {
	Address domain.Address `json:"address"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

type TokenResponse struct {
	Address         domain.Address    `json:"address"`
	PropertyID      domain.PropertyID `json:"property_id"`
	Name            string            `json:"name"`
	Symbol          string            `json:"symbol"`
	Location        string            `json:"location"`
	Valuation       domain.Amount     `json:"valuation"`
	Area            uint64            `json:"area"`
	Status          token.Status      `json:"status"`
	TotalSupply     domain.Amount     `json:"total_supply"`
	OwnerAllocation domain.Amount     `json:"owner_allocation"`
	PlatformFee     domain.Amount     `json:"platform_fee"`
	PublicSale      domain.Amount     `json:"public_sale"`
	IssuedAt        time.Time         `json:"issued_at"`
}

func toTokenResponse(t *token.Token) *TokenResponse {
	return &TokenResponse{
		Address:         t.Address,
		PropertyID:      t.PropertyID,
		Name:            t.Name,
		Symbol:          t.Symbol,
		Location:        t.Location,
		Valuation:       t.Valuation,
		Area:            t.Area,
		Status:          t.Status,
		TotalSupply:     t.TotalSupply,
		OwnerAllocation: t.OwnerAllocation,
		PlatformFee:     t.PlatformFee,
		PublicSale:      t.PublicSale,
		IssuedAt:        t.IssuedAt,
	}
}

type PreviewResponse struct {
	PropertyID domain.PropertyID `json:"property_id"`
	Address    domain.Address    `json:"address"`
}

type SaleResponse struct {
	Token         domain.Address `json:"token"`
	TokensForSale domain.Amount  `json:"tokens_for_sale"`
	TokensSold    domain.Amount  `json:"tokens_sold"`
	Remaining     domain.Amount  `json:"remaining"`
	PricePerToken domain.Amount  `json:"price_per_token"`
	Proceeds      domain.Amount  `json:"proceeds"`
	BuyerCap      domain.Amount  `json:"buyer_cap"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	Beneficiary   domain.Address `json:"beneficiary"`
	Active        bool           `json:"active"`
	Finalized     bool           `json:"finalized"`
}

func toSaleResponse(s *marketmodels.Sale) *SaleResponse {
	return &SaleResponse{
		Token:         s.Token,
		TokensForSale: s.TokensForSale,
		TokensSold:    s.TokensSold,
		Remaining:     s.Remaining(),
		PricePerToken: s.PricePerToken,
		Proceeds:      s.Proceeds,
		BuyerCap:      s.BuyerCap(),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Beneficiary:   s.Beneficiary,
		Active:        s.Active,
		Finalized:     s.Finalized,
	}
}

type PurchaseResponse struct {
	Token  domain.Address `json:"token"`
	Buyer  domain.Address `json:"buyer"`
	Amount domain.Amount  `json:"amount"`
}

func toPurchaseResponse(p *marketmodels.Purchase) *PurchaseResponse {
	return &PurchaseResponse{Token: p.Token, Buyer: p.Buyer, Amount: p.Amount}
}
