package httptransport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"landledger/internal/registry/models"
	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

// maxTextLength bounds free-text fields before they reach the services.
const maxTextLength = 1024

// AmountRequest is the body of deposits, withdrawals and purchases.
type AmountRequest struct {
	Amount domain.Amount `json:"amount"`
}

func (r *AmountRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// AddressRequest carries a single principal, e.g. a verifier or fee recipient.
type AddressRequest struct {
	Address string `json:"address"`

	parsed domain.Address
}

func (r *AddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	a, err := domain.ParseAddress(strings.TrimSpace(r.Address))
	if err != nil {
		return err
	}
	r.parsed = a
	return nil
}

type ApproveRequest struct {
	Spender string        `json:"spender"`
	Amount  domain.Amount `json:"amount"`

	spender domain.Address
}

func (r *ApproveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	a, err := domain.ParseAddress(strings.TrimSpace(r.Spender))
	if err != nil {
		return err
	}
	r.spender = a
	return nil
}

type MintRequest struct {
	To     string        `json:"to"`
	Amount domain.Amount `json:"amount"`

	to domain.Address
}

func (r *MintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	a, err := domain.ParseAddress(strings.TrimSpace(r.To))
	if err != nil {
		return err
	}
	r.to = a
	return nil
}

// MetadataRequest mirrors the property metadata. Latitude and longitude are
// in micro-degrees.
type MetadataRequest struct {
	SurveyID     string        `json:"survey_id"`
	Location     string        `json:"location"`
	Latitude     int64         `json:"latitude"`
	Longitude    int64         `json:"longitude"`
	Area         uint64        `json:"area"`
	DocumentHash string        `json:"document_hash"`
	Valuation    domain.Amount `json:"valuation"`
}

type RegisterPropertyRequest struct {
	Metadata    MetadataRequest `json:"metadata"`
	StakeAmount domain.Amount   `json:"stake_amount"`
}

// Validate only rejects malformed bodies; metadata rules live in the registry.
func (r *RegisterPropertyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

func (r *RegisterPropertyRequest) ToMetadata() models.PropertyMetadata {
	return models.PropertyMetadata{
		SurveyID:     r.Metadata.SurveyID,
		Location:     r.Metadata.Location,
		Latitude:     r.Metadata.Latitude,
		Longitude:    r.Metadata.Longitude,
		Area:         r.Metadata.Area,
		DocumentHash: r.Metadata.DocumentHash,
		Valuation:    r.Metadata.Valuation,
	}
}

type VerifyRequest struct {
	Approved *bool  `json:"approved"`
	Reason   string `json:"reason"`
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Approved == nil {
		return dErrors.New(dErrors.CodeValidation, "approved is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if len(r.Reason) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 1024 characters")
	}
	return nil
}

type SlashRequest struct {
	Evidence string `json:"evidence"`
}

func (r *SlashRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Evidence = strings.TrimSpace(r.Evidence)
	if r.Evidence == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "evidence is required")
	}
	if len(r.Evidence) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, "evidence must be at most 1024 characters")
	}
	return nil
}

// PrimaryMarketRequest moves factory-held tokens to a market. An empty
// market means the configured primary market.
type PrimaryMarketRequest struct {
	Market string        `json:"market,omitempty"`
	Amount domain.Amount `json:"amount"`

	market domain.Address
}

func (r *PrimaryMarketRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if m := strings.TrimSpace(r.Market); m != "" {
		a, err := domain.ParseAddress(m)
		if err != nil {
			return err
		}
		r.market = a
	}
	return nil
}

type StartSaleRequest struct {
	Token         string        `json:"token"`
	TokensForSale domain.Amount `json:"tokens_for_sale"`
	PricePerToken domain.Amount `json:"price_per_token"`
	Beneficiary   string        `json:"beneficiary"`

	token       domain.Address
	beneficiary domain.Address
}

func (r *StartSaleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	t, err := domain.ParseAddress(strings.TrimSpace(r.Token))
	if err != nil {
		return err
	}
	b, err := domain.ParseAddress(strings.TrimSpace(r.Beneficiary))
	if err != nil {
		return err
	}
	r.token, r.beneficiary = t, b
	return nil
}

func addressParam(r *http.Request, name string) (domain.Address, error) {
	return domain.ParseAddress(chi.URLParam(r, name))
}

func propertyIDParam(r *http.Request, name string) (domain.PropertyID, error) {
	return domain.ParsePropertyID(chi.URLParam(r, name))
}

func amountQuery(r *http.Request, name string) (domain.Amount, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeValidation, name+" is required")
	}
	return domain.ParseAmount(raw)
}

func indexParam(r *http.Request) (uint64, error) {
	idx, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "index must be a non-negative integer")
	}
	return idx, nil
}
