package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"landledger/internal/platform/config"
	"landledger/internal/ratelimit/metrics"
	"landledger/internal/ratelimit/models"
	"landledger/internal/ratelimit/store/bucket"
	"landledger/pkg/domain"
	reqtest "landledger/pkg/testutil"
)

type failingStore struct{ calls int }

func (f *failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

type RateLimitMiddlewareSuite struct {
	suite.Suite
	logger  *slog.Logger
	cfg     config.RateLimit
	metrics *metrics.Metrics
	next    http.Handler
}

func TestRateLimitMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(RateLimitMiddlewareSuite))
}

func (s *RateLimitMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cfg = config.RateLimit{Enabled: true, Requests: 2, Window: time.Minute}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.next = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *RateLimitMiddlewareSuite) serve(h http.Handler, caller domain.Address) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/properties", nil)
	if !caller.IsZero() {
		r = reqtest.WithCaller(r, caller)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func (s *RateLimitMiddlewareSuite) TestPerCallerLimit() {
	m := New(bucket.NewInMemoryBucketStore(), s.cfg, s.logger, WithMetrics(s.metrics))
	h := m.RateLimit(models.ClassWrite)(s.next)
	alice := domain.DeriveAddress("alice")
	bob := domain.DeriveAddress("bob")

	s.Run("requests within the limit pass with headers", func() {
		w := s.serve(h, alice)
		s.Equal(http.StatusNoContent, w.Code)
		s.Equal("2", w.Header().Get("X-RateLimit-Limit"))
		s.Equal("1", w.Header().Get("X-RateLimit-Remaining"))
		s.Equal(http.StatusNoContent, s.serve(h, alice).Code)
	})

	s.Run("request over the limit is rejected with retry-after", func() {
		w := s.serve(h, alice)
		s.Equal(http.StatusTooManyRequests, w.Code)
		s.NotEmpty(w.Header().Get("Retry-After"))
		s.Contains(w.Body.String(), "rate_limit_exceeded")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejected.WithLabelValues("write")))
	})

	s.Run("other callers have their own bucket", func() {
		s.Equal(http.StatusNoContent, s.serve(h, bob).Code)
	})
}

func (s *RateLimitMiddlewareSuite) TestDisabled() {
	s.cfg.Enabled = false
	m := New(&failingStore{}, s.cfg, s.logger)
	h := m.RateLimit(models.ClassWrite)(s.next)
	for range 5 {
		s.Equal(http.StatusNoContent, s.serve(h, domain.ZeroAddress).Code)
	}
}

// Justification: A broken shared store must degrade to local limiting rather
// than either blocking all traffic or disabling limits.
func (s *RateLimitMiddlewareSuite) TestFallbackWhenStoreFails() {
	primary := &failingStore{}
	m := New(primary, s.cfg, s.logger,
		WithFallback(bucket.NewInMemoryBucketStore()),
		WithMetrics(s.metrics),
	)
	h := m.RateLimit(models.ClassWrite)(s.next)
	carol := domain.DeriveAddress("carol")

	s.Run("fails open until the circuit opens", func() {
		for range 4 {
			w := s.serve(h, carol)
			s.Equal(http.StatusNoContent, w.Code)
			s.Empty(w.Header().Get("X-RateLimit-Status"))
		}
	})

	s.Run("open circuit answers from the fallback", func() {
		w := s.serve(h, carol)
		s.Equal(http.StatusNoContent, w.Code)
		s.Equal("degraded", w.Header().Get("X-RateLimit-Status"))
		s.Equal(http.StatusNoContent, s.serve(h, carol).Code)
		s.Equal(http.StatusTooManyRequests, s.serve(h, carol).Code)
		s.Equal(7, primary.calls)
		s.Equal(7.0, testutil.ToFloat64(s.metrics.StoreFailures))
	})
}
