package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"landledger/internal/ledger"
	"landledger/pkg/requestcontext"
)

// Store appends events. Implementations must join the ledger transaction in ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher writes events fail-closed: if the event cannot be stored the
// calling operation fails and its transaction rolls back.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	emitted *prometheus.CounterVec
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithRegisterer exports an emitted-events counter on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Publisher) {
		p.emitted = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "landledger_events_emitted_total",
			Help: "Ledger events committed, by kind",
		}, []string{"kind"})
	}
}

func NewPublisher(store Store, opts ...Option) (*Publisher, error) {
	if store == nil {
		return nil, fmt.Errorf("event store is required")
	}
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p, nil
}

// Emit fills in id, timestamp, actor and request id from ctx, appends the event,
// and logs it once the enclosing transaction commits.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Kind == "" {
		return fmt.Errorf("event kind is required")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Actor.IsZero() {
		event.Actor = requestcontext.Caller(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append %s event: %w", event.Kind, err)
	}

	ledger.AfterCommit(ctx, func() {
		args := []any{
			"event", string(event.Kind),
			"log_type", "audit",
			"component", string(event.Component),
			"subject", event.Subject,
			"actor", event.Actor.String(),
			"request_id", event.RequestID,
		}
		for k, v := range event.Attributes {
			args = append(args, k, v)
		}
		p.logger.InfoContext(ctx, string(event.Kind), args...)
		if p.emitted != nil {
			p.emitted.WithLabelValues(string(event.Kind)).Inc()
		}
	})
	return nil
}
