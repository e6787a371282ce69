package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	platformmetrics "landledger/internal/platform/metrics"
	ratelimit "landledger/internal/ratelimit/middleware"
	"landledger/internal/ratelimit/models"
	"landledger/pkg/platform/httputil"
	"landledger/pkg/platform/middleware/auth"
	"landledger/pkg/platform/middleware/requestid"
	"landledger/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type RouterConfig struct {
	Logger    *slog.Logger
	Validator auth.TokenValidator
	Limiter   *ratelimit.Middleware
	Metrics   *platformmetrics.Metrics
	Gatherer  prometheus.Gatherer
	Health    []HealthCheck
}

// NewRouter mounts the public queries, the authenticated mutations, and the
// operational endpoints.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(cfg.Health))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.RateLimit(models.ClassRead))
		}
		h.RegisterReads(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.RateLimit(models.ClassWrite))
		}
		h.RegisterWrites(r)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
