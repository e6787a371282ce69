package httptransport

import (
	"net/http"

	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// HandleListTokens handles GET /tokens.
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokens, err := h.factory.GetAllTokens(ctx)
	if err != nil {
		h.fail(ctx, w, "list tokens", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressList(tokens))
}

// HandleTokenCount handles GET /tokens/count.
func (h *Handler) HandleTokenCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := h.factory.GetTokenCount(ctx)
	if err != nil {
		h.fail(ctx, w, "count tokens", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CountResponse{Count: n})
}

// HandleTokenAt handles GET /tokens/index/{index}.
func (h *Handler) HandleTokenAt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idx, err := indexParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	addr, err := h.factory.AllTokens(ctx, idx)
	if err != nil {
		h.fail(ctx, w, "load token by index", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AddressResponse{Address: addr})
}

// HandleGetToken handles GET /tokens/{address}.
func (h *Handler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	t, err := h.factory.GetToken(ctx, addr)
	if err != nil {
		h.fail(ctx, w, "load token", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(t))
}

// HandlePreviewTokenAddress handles GET /tokens/preview/{propertyID}.
// The preview is not the address the token is created at; see the factory.
func (h *Handler) HandlePreviewTokenAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := propertyIDParam(r, "propertyID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &PreviewResponse{
		PropertyID: id,
		Address:    h.factory.ComputeTokenAddress(ctx, id),
	})
}

// HandleTransferToMarket handles POST /tokens/{address}/primary-market.
func (h *Handler) HandleTransferToMarket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PrimaryMarketRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.factory.TransferToPrimaryMarket(ctx, addr, req.market, req.Amount); err != nil {
		h.fail(ctx, w, "transfer to primary market", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnableTrading handles POST /tokens/{address}/trading.
func (h *Handler) HandleEnableTrading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.factory.EnableTrading(ctx, addr); err != nil {
		h.fail(ctx, w, "enable trading", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetFeeRecipient handles PUT /admin/fee-recipient.
func (h *Handler) HandleSetFeeRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.factory.SetFeeRecipient(ctx, req.parsed); err != nil {
		h.fail(ctx, w, "set fee recipient", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AddressResponse{Address: req.parsed})
}
