package httptransport

import (
	"net/http"
	"time"

	registryservice "landledger/internal/registry/service"
	"landledger/pkg/domain"
	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// HandleMinStake handles GET /properties/min-stake?valuation=.
func (h *Handler) HandleMinStake(w http.ResponseWriter, r *http.Request) {
	valuation, err := amountQuery(r, "valuation")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minStake, err := registryservice.CalculateMinStake(valuation)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &MinStakeResponse{Valuation: valuation, MinStake: minStake})
}

// HandleRegisterProperty handles POST /properties.
func (h *Handler) HandleRegisterProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterPropertyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	property, err := h.registry.RegisterProperty(ctx, req.ToMetadata(), req.StakeAmount)
	if err != nil {
		h.fail(ctx, w, "register property", err)
		return
	}

	h.logger.InfoContext(ctx, "property registered",
		"request_id", requestID,
		"property_id", property.ID.String(),
		"owner", property.Owner.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toPropertyResponse(property))
}

// HandleGetProperty handles GET /properties/{id}.
func (h *Handler) HandleGetProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := propertyIDParam(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	property, err := h.registry.GetPropertyData(ctx, id)
	if err != nil {
		h.fail(ctx, w, "load property", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPropertyResponse(property))
}

// HandleGetPropertyStatus handles GET /properties/{id}/status.
// Unknown ids report status "none".
func (h *Handler) HandleGetPropertyStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := propertyIDParam(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.registry.GetPropertyStatus(ctx, id)
	if err != nil {
		h.fail(ctx, w, "load property status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &StatusResponse{ID: id, Status: status})
}

// HandleVerifyProperty handles POST /properties/{id}/verify.
func (h *Handler) HandleVerifyProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := propertyIDParam(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	property, err := h.registry.VerifyProperty(ctx, id, *req.Approved, req.Reason)
	if err != nil {
		h.fail(ctx, w, "verify property", err)
		return
	}

	h.logger.InfoContext(ctx, "property verification decided",
		"request_id", requestID,
		"property_id", id.String(),
		"approved", *req.Approved,
		"status", property.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, toPropertyResponse(property))
}

// HandleSlashProperty handles POST /properties/{id}/slash.
func (h *Handler) HandleSlashProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := propertyIDParam(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SlashRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	property, err := h.registry.SlashProperty(ctx, id, req.Evidence)
	if err != nil {
		h.fail(ctx, w, "slash property", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPropertyResponse(property))
}

// HandleGetOwnerProperties handles GET /owners/{owner}/properties.
func (h *Handler) HandleGetOwnerProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := addressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ids, err := h.registry.GetOwnerProperties(ctx, owner)
	if err != nil {
		h.fail(ctx, w, "list owner properties", err)
		return
	}
	if ids == nil {
		ids = []domain.PropertyID{}
	}
	httputil.WriteJSON(w, http.StatusOK, &PropertyListResponse{Owner: owner, Properties: ids})
}

// HandleGetTokenProperty handles GET /tokens/{address}/property.
func (h *Handler) HandleGetTokenProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	property, err := h.registry.GetPropertyByToken(ctx, addr)
	if err != nil {
		h.fail(ctx, w, "load token property", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPropertyResponse(property))
}

// HandleAddVerifier handles POST /admin/verifiers.
func (h *Handler) HandleAddVerifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.registry.AddVerifier(ctx, req.parsed); err != nil {
		h.fail(ctx, w, "add verifier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AddressResponse{Address: req.parsed})
}

// HandleRemoveVerifier handles DELETE /admin/verifiers/{address}.
func (h *Handler) HandleRemoveVerifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := addressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.RemoveVerifier(ctx, addr); err != nil {
		h.fail(ctx, w, "remove verifier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListVerifiers handles GET /verifiers.
func (h *Handler) HandleListVerifiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	verifiers, err := h.registry.ListVerifiers(ctx)
	if err != nil {
		h.fail(ctx, w, "list verifiers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressList(verifiers))
}
