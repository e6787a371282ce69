package httptransport

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	marketmodels "landledger/internal/market/models"
	marketservice "landledger/internal/market/service"
	"landledger/internal/registry/models"
	"landledger/internal/token"
	vaultmodels "landledger/internal/vault/models"
	"landledger/pkg/domain"
)

type PaymentService interface {
	Approve(ctx context.Context, spender domain.Address, amount domain.Amount) error
	Faucet(ctx context.Context, to domain.Address, amount domain.Amount) error
	BalanceOf(ctx context.Context, holder domain.Address) (domain.Amount, error)
	Allowance(ctx context.Context, owner, spender domain.Address) (domain.Amount, error)
}

type VaultService interface {
	DepositStake(ctx context.Context, amount domain.Amount) (*vaultmodels.Stake, error)
	WithdrawStake(ctx context.Context, amount domain.Amount) (*vaultmodels.Stake, error)
	GetStake(ctx context.Context, owner domain.Address) (*vaultmodels.Stake, error)
}

type RegistryService interface {
	RegisterProperty(ctx context.Context, m models.PropertyMetadata, stakeAmount domain.Amount) (*models.Property, error)
	VerifyProperty(ctx context.Context, id domain.PropertyID, approved bool, reason string) (*models.Property, error)
	SlashProperty(ctx context.Context, id domain.PropertyID, evidence string) (*models.Property, error)
	GetPropertyData(ctx context.Context, id domain.PropertyID) (*models.Property, error)
	GetPropertyStatus(ctx context.Context, id domain.PropertyID) (models.Status, error)
	GetOwnerProperties(ctx context.Context, owner domain.Address) ([]domain.PropertyID, error)
	GetPropertyByToken(ctx context.Context, token domain.Address) (*models.Property, error)
	AddVerifier(ctx context.Context, verifier domain.Address) error
	RemoveVerifier(ctx context.Context, verifier domain.Address) error
	ListVerifiers(ctx context.Context) ([]domain.Address, error)
}

type FactoryService interface {
	GetAllTokens(ctx context.Context) ([]domain.Address, error)
	GetTokenCount(ctx context.Context) (uint64, error)
	AllTokens(ctx context.Context, index uint64) (domain.Address, error)
	GetToken(ctx context.Context, addr domain.Address) (*token.Token, error)
	ComputeTokenAddress(ctx context.Context, id domain.PropertyID) domain.Address
	TransferToPrimaryMarket(ctx context.Context, tokenAddr, market domain.Address, amount domain.Amount) error
	EnableTrading(ctx context.Context, tokenAddr domain.Address) error
	SetFeeRecipient(ctx context.Context, recipient domain.Address) error
}

type MarketService interface {
	StartSale(ctx context.Context, token domain.Address, tokensForSale, price domain.Amount, beneficiary domain.Address) (*marketmodels.Sale, error)
	GetSale(ctx context.Context, token domain.Address) (*marketmodels.Sale, error)
	BuyTokens(ctx context.Context, token domain.Address, amount domain.Amount) (*marketmodels.Purchase, error)
	GetPurchase(ctx context.Context, token, buyer domain.Address) (*marketmodels.Purchase, error)
	Quote(ctx context.Context, token domain.Address, amount domain.Amount) (*marketservice.Quote, error)
	FinalizeSale(ctx context.Context, token domain.Address) (*marketservice.Settlement, error)
}

// Services groups the ledger components served over HTTP.
type Services struct {
	Payment  PaymentService
	Vault    VaultService
	Registry RegistryService
	Factory  FactoryService
	Market   MarketService
}

// Handler is the thin HTTP layer over the ledger services.
type Handler struct {
	payment  PaymentService
	vault    VaultService
	registry RegistryService
	factory  FactoryService
	market   MarketService
	logger   *slog.Logger
}

func New(services Services, logger *slog.Logger) *Handler {
	return &Handler{
		payment:  services.Payment,
		vault:    services.Vault,
		registry: services.Registry,
		factory:  services.Factory,
		market:   services.Market,
		logger:   logger,
	}
}

// RegisterReads mounts the query endpoints.
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/payment/balances/{address}", h.HandleGetBalance)
	r.Get("/payment/allowances/{owner}/{spender}", h.HandleGetAllowance)

	r.Get("/vault/stakes/{owner}", h.HandleGetStake)

	r.Get("/properties/min-stake", h.HandleMinStake)
	r.Get("/properties/{id}", h.HandleGetProperty)
	r.Get("/properties/{id}/status", h.HandleGetPropertyStatus)
	r.Get("/owners/{owner}/properties", h.HandleGetOwnerProperties)
	r.Get("/verifiers", h.HandleListVerifiers)

	r.Get("/tokens", h.HandleListTokens)
	r.Get("/tokens/count", h.HandleTokenCount)
	r.Get("/tokens/index/{index}", h.HandleTokenAt)
	r.Get("/tokens/preview/{propertyID}", h.HandlePreviewTokenAddress)
	r.Get("/tokens/{address}", h.HandleGetToken)
	r.Get("/tokens/{address}/property", h.HandleGetTokenProperty)

	r.Get("/sales/{token}", h.HandleGetSale)
	r.Get("/sales/{token}/purchases/{buyer}", h.HandleGetPurchase)
	r.Get("/sales/{token}/quote", h.HandleQuote)
}

// RegisterWrites mounts the state-changing endpoints.
func (h *Handler) RegisterWrites(r chi.Router) {
	r.Post("/payment/approvals", h.HandleApprove)
	r.Post("/admin/payment/mint", h.HandleFaucet)

	r.Post("/vault/deposits", h.HandleDeposit)
	r.Post("/vault/withdrawals", h.HandleWithdraw)

	r.Post("/properties", h.HandleRegisterProperty)
	r.Post("/properties/{id}/verify", h.HandleVerifyProperty)
	r.Post("/properties/{id}/slash", h.HandleSlashProperty)
	r.Post("/admin/verifiers", h.HandleAddVerifier)
	r.Delete("/admin/verifiers/{address}", h.HandleRemoveVerifier)

	r.Post("/tokens/{address}/primary-market", h.HandleTransferToMarket)
	r.Post("/tokens/{address}/trading", h.HandleEnableTrading)
	r.Put("/admin/fee-recipient", h.HandleSetFeeRecipient)

	r.Post("/sales", h.HandleStartSale)
	r.Post("/sales/{token}/purchases", h.HandleBuyTokens)
	r.Post("/sales/{token}/finalize", h.HandleFinalizeSale)
}
