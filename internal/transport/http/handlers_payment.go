package httptransport

import (
	"context"
	"net/http"

	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// HandleApprove handles POST /payment/approvals.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ApproveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.payment.Approve(ctx, req.spender, req.Amount); err != nil {
		h.fail(ctx, w, "approve", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AllowanceResponse{
		Owner:     requestcontext.Caller(ctx),
		Spender:   req.spender,
		Allowance: req.Amount,
	})
}

// HandleFaucet handles POST /admin/payment/mint.
func (h *Handler) HandleFaucet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.payment.Faucet(ctx, req.to, req.Amount); err != nil {
		h.fail(ctx, w, "mint payment asset", err)
		return
	}
	balance, err := h.payment.BalanceOf(ctx, req.to)
	if err != nil {
		h.fail(ctx, w, "load balance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &BalanceResponse{Address: req.to, Balance: balance})
}

// HandleGetBalance handles GET /payment/balances/{address}.
func (h *Handler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	balance, err := h.payment.BalanceOf(ctx, addr)
	if err != nil {
		h.fail(ctx, w, "load balance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &BalanceResponse{Address: addr, Balance: balance})
}

// HandleGetAllowance handles GET /payment/allowances/{owner}/{spender}.
func (h *Handler) HandleGetAllowance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := addressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	spender, err := addressParam(r, "spender")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	allowance, err := h.payment.Allowance(ctx, owner, spender)
	if err != nil {
		h.fail(ctx, w, "load allowance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AllowanceResponse{Owner: owner, Spender: spender, Allowance: allowance})
}

// fail logs a service failure at a level matching its status and writes it.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"caller", requestcontext.Caller(ctx).String(),
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, op+" rejected", attrs...)
	}
	httputil.WriteError(w, err)
}
