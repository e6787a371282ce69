package asset

import (
	"context"
	"log/slog"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/requestcontext"
)

// Payment exposes one payment asset to callers. Approvals are always made
// by the caller over their own balance; minting is reserved to the operator.
type Payment struct {
	ledger   *Service
	asset    domain.Address
	operator domain.Address
	logger   *slog.Logger
}

func NewPayment(ledger *Service, asset, operator domain.Address, logger *slog.Logger) *Payment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Payment{ledger: ledger, asset: asset, operator: operator, logger: logger}
}

func (p *Payment) Asset() domain.Address { return p.asset }

// Approve sets spender's allowance over the caller's balance.
func (p *Payment) Approve(ctx context.Context, spender domain.Address, amount domain.Amount) error {
	owner := requestcontext.Caller(ctx)
	if owner.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is required")
	}
	return p.ledger.Approve(ctx, p.asset, owner, spender, amount)
}

// Faucet mints payment units to an account.
func (p *Payment) Faucet(ctx context.Context, to domain.Address, amount domain.Amount) error {
	if requestcontext.Caller(ctx) != p.operator {
		return dErrors.New(dErrors.CodeNotOwner, "only the operator may mint the payment asset")
	}
	if err := p.ledger.Mint(ctx, p.asset, to, amount); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "payment asset minted",
		"event", "payment_minted",
		"log_type", "audit",
		"request_id", requestcontext.RequestID(ctx),
		"to", to.String(),
		"amount", amount.String(),
	)
	return nil
}

func (p *Payment) BalanceOf(ctx context.Context, holder domain.Address) (domain.Amount, error) {
	return p.ledger.BalanceOf(ctx, p.asset, holder)
}

func (p *Payment) Allowance(ctx context.Context, owner, spender domain.Address) (domain.Amount, error) {
	return p.ledger.Allowance(ctx, p.asset, owner, spender)
}
