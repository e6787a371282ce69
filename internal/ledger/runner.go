package ledger

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/tx"
)

// Runner is the transactional boundary every operation goes through.
// Mutations run in RunInTx; queries run in View and only observe committed state.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	View(ctx context.Context, fn func(ctx context.Context) error) error
}

// Read runs fn through r.View and returns its result.
func Read[T any](ctx context.Context, r Runner, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := r.View(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

type viewKey struct{}

func inView(ctx context.Context) bool {
	v, _ := ctx.Value(viewKey{}).(bool)
	return v
}

const defaultTxTimeout = 5 * time.Second

// advisoryLockKey serializes ledger transactions across every process sharing the database.
const advisoryLockKey int64 = 0x4c414e44 // "LAND"

var tracer = otel.Tracer("landledger/internal/ledger")

type options struct {
	timeout time.Duration
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures a Runner.
type Option func(*options)

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func buildOptions(opts []Option) options {
	o := options{timeout: defaultTxTimeout, tracer: tracer}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Memory serializes transactions with a single process-wide lock. Queries share
// the lock in read mode, so they never see a transaction's uncommitted writes.
type Memory struct {
	mu   sync.RWMutex
	opts options
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{opts: buildOptions(opts)}
}

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}
	ctx, cancel, err := prepare(ctx, m.opts.timeout)
	if err != nil {
		return err
	}
	defer cancel()

	ctx, span := m.opts.tracer.Start(ctx, "ledger.tx", trace.WithAttributes(attribute.String("ledger.backend", "memory")))
	start := time.Now()
	defer func() { finish(span, m.opts.metrics, "memory", start, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	j := &journal{}
	defer func() {
		if r := recover(); r != nil {
			j.rollback()
			panic(r)
		}
	}()

	if err := fn(withJournal(ctx, j)); err != nil {
		j.rollback()
		return err
	}
	j.commit()
	return nil
}

// View runs fn under the read lock. Inside a transaction or another view it
// joins the open scope.
func (m *Memory) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) || inView(ctx) {
		return fn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(context.WithValue(ctx, viewKey{}, true))
}

// Postgres runs each operation in a SQL transaction holding a transaction-scoped
// advisory lock, which gives a total order across server instances.
type Postgres struct {
	db   *sql.DB
	opts options
}

func NewPostgres(db *sql.DB, opts ...Option) *Postgres {
	return &Postgres{db: db, opts: buildOptions(opts)}
}

func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}
	ctx, cancel, err := prepare(ctx, p.opts.timeout)
	if err != nil {
		return err
	}
	defer cancel()

	ctx, span := p.opts.tracer.Start(ctx, "ledger.tx", trace.WithAttributes(attribute.String("ledger.backend", "postgres")))
	start := time.Now()
	defer func() { finish(span, p.opts.metrics, "postgres", start, err) }()

	sqlTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire ledger lock")
	}

	j := &journal{}
	if err := fn(withJournal(tx.WithTx(ctx, sqlTx), j)); err != nil {
		j.rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		j.rollback()
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	j.commit()
	return nil
}

// View runs fn directly; reads outside the SQL transaction see only committed rows.
func (p *Postgres) View(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func prepare(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return ctx, func() {}, dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, cancel, nil
}

func finish(span trace.Span, m *Metrics, backend string, start time.Time, err error) {
	outcome := "commit"
	if err != nil {
		outcome = "rollback"
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.SetAttributes(attribute.String("ledger.outcome", outcome))
	span.End()
	m.ObserveTx(backend, outcome, start)
}
