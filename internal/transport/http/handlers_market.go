package httptransport

import (
	"net/http"

	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// HandleStartSale handles POST /sales.
func (h *Handler) HandleStartSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[StartSaleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sale, err := h.market.StartSale(ctx, req.token, req.TokensForSale, req.PricePerToken, req.beneficiary)
	if err != nil {
		h.fail(ctx, w, "start sale", err)
		return
	}
	h.logger.InfoContext(ctx, "sale started",
		"request_id", requestID,
		"token", sale.Token.String(),
		"tokens_for_sale", sale.TokensForSale.String(),
		"end_time", sale.EndTime,
	)
	httputil.WriteJSON(w, http.StatusCreated, toSaleResponse(sale))
}

// HandleGetSale handles GET /sales/{token}.
func (h *Handler) HandleGetSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenAddr, err := addressParam(r, "token")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sale, err := h.market.GetSale(ctx, tokenAddr)
	if err != nil {
		h.fail(ctx, w, "load sale", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
}

// HandleBuyTokens handles POST /sales/{token}/purchases.
func (h *Handler) HandleBuyTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tokenAddr, err := addressParam(r, "token")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AmountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	purchase, err := h.market.BuyTokens(ctx, tokenAddr, req.Amount)
	if err != nil {
		h.fail(ctx, w, "buy tokens", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPurchaseResponse(purchase))
}

// HandleGetPurchase handles GET /sales/{token}/purchases/{buyer}.
func (h *Handler) HandleGetPurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenAddr, err := addressParam(r, "token")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	buyer, err := addressParam(r, "buyer")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	purchase, err := h.market.GetPurchase(ctx, tokenAddr, buyer)
	if err != nil {
		h.fail(ctx, w, "load purchase", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPurchaseResponse(purchase))
}

// HandleQuote handles GET /sales/{token}/quote?amount=.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenAddr, err := addressParam(r, "token")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := amountQuery(r, "amount")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	quote, err := h.market.Quote(ctx, tokenAddr, amount)
	if err != nil {
		h.fail(ctx, w, "quote purchase", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

// HandleFinalizeSale handles POST /sales/{token}/finalize.
func (h *Handler) HandleFinalizeSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenAddr, err := addressParam(r, "token")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	settlement, err := h.market.FinalizeSale(ctx, tokenAddr)
	if err != nil {
		h.fail(ctx, w, "finalize sale", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settlement)
}
