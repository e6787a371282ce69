package httptransport

import (
	"net/http"

	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// HandleDeposit handles POST /vault/deposits.
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AmountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	stake, err := h.vault.DepositStake(ctx, req.Amount)
	if err != nil {
		h.fail(ctx, w, "deposit stake", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStakeResponse(stake))
}

// HandleWithdraw handles POST /vault/withdrawals.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AmountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	stake, err := h.vault.WithdrawStake(ctx, req.Amount)
	if err != nil {
		h.fail(ctx, w, "withdraw stake", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStakeResponse(stake))
}

// HandleGetStake handles GET /vault/stakes/{owner}.
func (h *Handler) HandleGetStake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := addressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stake, err := h.vault.GetStake(ctx, owner)
	if err != nil {
		h.fail(ctx, w, "load stake", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStakeResponse(stake))
}
