package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"landledger/internal/platform/config"
	"landledger/internal/ratelimit/metrics"
	"landledger/internal/ratelimit/models"
	"landledger/pkg/platform/circuit"
	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// BucketStore is the sliding-window backend consulted per request.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback answers checks from fallback while the primary store is failing.
func WithFallback(fallback BucketStore) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

func New(store BucketStore, cfg config.RateLimit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:    store,
		breaker:  circuit.New("ratelimit", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(3)),
		limit:    cfg.Requests,
		window:   cfg.Window,
		logger:   logger,
		disabled: !cfg.Enabled,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits each caller to the configured number of requests per
// window for the given endpoint class. Anonymous requests are keyed by
// client address.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := models.CallerKey(class, callerIdentity(r))

			result, degraded, err := m.check(ctx, key)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if degraded {
				w.Header().Set("X-RateLimit-Status", "degraded")
			}

			if !result.Allowed {
				m.metrics.IncrementRejected(string(class))
				writeRateLimitExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) check(ctx context.Context, key string) (*models.RateLimitResult, bool, error) {
	result, err := m.store.Allow(ctx, key, m.limit, m.window)
	if err == nil {
		usePrimary, change := m.breaker.RecordSuccess()
		if change.Closed {
			m.logger.InfoContext(ctx, "rate limit store recovered", "breaker", m.breaker.Name())
		}
		if usePrimary || m.fallback == nil {
			return result, false, nil
		}
		// Still recovering: the fallback keeps counting so buckets stay consistent.
		return m.allowFallback(ctx, key)
	}

	m.metrics.IncrementStoreFailures()
	useFallback, change := m.breaker.RecordFailure()
	if change.Opened {
		m.logger.WarnContext(ctx, "rate limit store unavailable, circuit opened",
			"breaker", m.breaker.Name(),
			"error", err,
		)
	}
	if useFallback && m.fallback != nil {
		return m.allowFallback(ctx, key)
	}
	return nil, false, err
}

func (m *Middleware) allowFallback(ctx context.Context, key string) (*models.RateLimitResult, bool, error) {
	m.metrics.IncrementFallback()
	result, err := m.fallback.Allow(ctx, key, m.limit, m.window)
	return result, true, err
}

func callerIdentity(r *http.Request) string {
	if caller := requestcontext.Caller(r.Context()); !caller.IsZero() {
		return caller.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
