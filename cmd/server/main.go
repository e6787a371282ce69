package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"landledger/internal/app"
	"landledger/internal/events/relay"
	jwttoken "landledger/internal/jwt_token"
	"landledger/internal/market/sweeper"
	"landledger/internal/platform/config"
	"landledger/internal/platform/httpserver"
	"landledger/internal/platform/logger"
	platformmetrics "landledger/internal/platform/metrics"
	"landledger/internal/platform/otel"
	"landledger/internal/platform/postgres"
	platformredis "landledger/internal/platform/redis"
	ratelimitmetrics "landledger/internal/ratelimit/metrics"
	ratelimit "landledger/internal/ratelimit/middleware"
	"landledger/internal/ratelimit/store/bucket"
	httptransport "landledger/internal/transport/http"
	"landledger/pkg/domain"
)

// main runs the ledger API. "server token <address>" prints a bearer token for
// address signed with the configured key, for local use.
func main() {
	var err error
	if len(os.Args) > 1 && os.Args[1] == "token" {
		err = issueToken(os.Args[2:])
	} else {
		err = run()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var health []httptransport.HealthCheck

	deployment, db, err := openDeployment(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		health = append(health, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if err := deployment.Bootstrap(ctx, cfg.Principals); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	limiter, redisClient, err := newLimiter(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		health = append(health, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	handler := httptransport.New(httptransport.Services{
		Payment:  deployment.Payment,
		Vault:    deployment.Vault,
		Registry: deployment.Registry,
		Factory:  deployment.Factory,
		Market:   deployment.Market,
	}, log)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:    log,
		Validator: jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
		Limiter:   limiter,
		Metrics:   platformmetrics.New(reg),
		Gatherer:  reg,
		Health:    health,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(cfg.Server, router), cfg.Server.ShutdownTimeout, log)
	})

	if cfg.Market.SweepSchedule != "" {
		sw, err := sweeper.New(deployment.Market, cfg.Market.SweepSchedule, sweeper.WithLogger(log))
		if err != nil {
			return fmt.Errorf("sale sweeper: %w", err)
		}
		g.Go(func() error { return sw.Run(gctx) })
	}

	if len(cfg.Kafka.Brokers) > 0 {
		client, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			return fmt.Errorf("kafka client: %w", err)
		}
		defer client.Close()
		if err := relay.EnsureTopic(ctx, client, cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.Replicas); err != nil {
			return err
		}
		r, err := relay.New(deployment.Outbox, client, cfg.Kafka.Topic,
			relay.WithLogger(log),
			relay.WithBatchSize(cfg.Kafka.BatchSize),
			relay.WithPollInterval(cfg.Kafka.PollInterval),
		)
		if err != nil {
			return fmt.Errorf("outbox relay: %w", err)
		}
		g.Go(func() error { return r.Run(gctx) })
	}

	log.Info("landledger started",
		"backend", cfg.Backend,
		"operator", cfg.Principals.Operator.String(),
		"payment_asset", cfg.Principals.PaymentAsset.String(),
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openDeployment(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*app.Deployment, *sql.DB, error) {
	opts := []app.Option{app.WithLogger(log), app.WithRegisterer(reg)}
	if cfg.Backend != config.BackendPostgres {
		d, err := app.NewMemory(cfg, opts...)
		return d, nil, err
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if _, err := postgres.Migrate(db, log); err != nil {
		db.Close()
		return nil, nil, err
	}
	d, err := app.NewPostgres(cfg, db, opts...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return d, db, nil
}

// newLimiter uses Redis when configured, with the in-process store as the
// fallback while Redis is unavailable.
func newLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*ratelimit.Middleware, *platformredis.Client, error) {
	local := bucket.NewInMemoryBucketStore()
	opts := []ratelimit.Option{ratelimit.WithMetrics(ratelimitmetrics.New(reg))}

	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return ratelimit.New(local, cfg.RateLimit, log, opts...), nil, nil
	}
	opts = append(opts, ratelimit.WithFallback(local))
	return ratelimit.New(bucket.NewRedisBucketStore(client.Client), cfg.RateLimit, log, opts...), client, nil
}

func issueToken(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: server token <address>")
	}
	caller, err := domain.ParseAddress(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	svc := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	token, err := svc.GenerateCallerToken(caller, time.Now(), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
