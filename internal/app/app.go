// Package app assembles a ledger deployment: stores for the configured
// backend, the component services and the capability that ties the registry
// to the vault and the factory.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"landledger/internal/asset"
	assetmemory "landledger/internal/asset/store/memory"
	assetpostgres "landledger/internal/asset/store/postgres"
	"landledger/internal/events"
	eventmemory "landledger/internal/events/store/memory"
	eventpostgres "landledger/internal/events/store/postgres"
	factoryservice "landledger/internal/factory/service"
	factorymemory "landledger/internal/factory/store/memory"
	factorypostgres "landledger/internal/factory/store/postgres"
	"landledger/internal/ledger"
	marketmetrics "landledger/internal/market/metrics"
	marketservice "landledger/internal/market/service"
	marketmemory "landledger/internal/market/store/memory"
	marketpostgres "landledger/internal/market/store/postgres"
	"landledger/internal/platform/config"
	registrymetrics "landledger/internal/registry/metrics"
	registryservice "landledger/internal/registry/service"
	registrymemory "landledger/internal/registry/store/memory"
	registrypostgres "landledger/internal/registry/store/postgres"
	"landledger/internal/token"
	tokenmemory "landledger/internal/token/store/memory"
	tokenpostgres "landledger/internal/token/store/postgres"
	vaultservice "landledger/internal/vault/service"
	vaultmemory "landledger/internal/vault/store/memory"
	vaultpostgres "landledger/internal/vault/store/postgres"
	"landledger/pkg/capability"
	"landledger/pkg/domain"
	"landledger/pkg/requestcontext"
)

// Component accounts. They are fixed per deployment so that token addresses
// derived from the factory address are reproducible.
var (
	VaultAddress   = domain.DeriveAddress("landledger/vault")
	FactoryAddress = domain.DeriveAddress("landledger/factory")
	MarketAddress  = domain.DeriveAddress("landledger/market")
)

// Deployment is a fully wired ledger.
type Deployment struct {
	Runner   ledger.Runner
	Assets   *asset.Service
	Payment  *asset.Payment
	Tokens   *token.Service
	Vault    *vaultservice.Service
	Registry *registryservice.Service
	Factory  *factoryservice.Service
	Market   *marketservice.Service
	Events   *events.Publisher

	// Outbox is set for the postgres backend only.
	Outbox *eventpostgres.Store
	// EventLog is set for the memory backend only.
	EventLog *eventmemory.Store
}

type stores struct {
	runner   ledger.Runner
	assets   asset.Store
	tokens   token.Store
	vault    vaultservice.Store
	registry registryservice.Store
	factory  factoryservice.Store
	market   marketservice.Store
	events   events.Store
}

type Option func(*options)

type options struct {
	logger          *slog.Logger
	registerer      prometheus.Registerer
	liquiditySeeder marketservice.LiquiditySeeder
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithLiquiditySeeder(seeder marketservice.LiquiditySeeder) Option {
	return func(o *options) { o.liquiditySeeder = seeder }
}

// NewMemory builds a deployment whose state lives in process memory.
func NewMemory(cfg *config.Config, opts ...Option) (*Deployment, error) {
	o := buildOptions(opts)
	eventLog := eventmemory.New()
	st := stores{
		runner:   ledger.NewMemory(ledger.WithMetrics(ledger.NewMetrics(o.registerer))),
		assets:   assetmemory.New(),
		tokens:   tokenmemory.New(),
		vault:    vaultmemory.New(),
		registry: registrymemory.New(),
		factory:  factorymemory.New(),
		market:   marketmemory.New(),
		events:   eventLog,
	}
	d, err := build(cfg, st, o)
	if err != nil {
		return nil, err
	}
	d.EventLog = eventLog
	return d, nil
}

// NewPostgres builds a deployment on a migrated database.
func NewPostgres(cfg *config.Config, db *sql.DB, opts ...Option) (*Deployment, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	o := buildOptions(opts)
	outbox := eventpostgres.New(db)
	st := stores{
		runner: ledger.NewPostgres(db,
			ledger.WithTimeout(cfg.Postgres.TxTimeout),
			ledger.WithMetrics(ledger.NewMetrics(o.registerer)),
		),
		assets:   assetpostgres.New(db),
		tokens:   tokenpostgres.New(db),
		vault:    vaultpostgres.New(db),
		registry: registrypostgres.New(db),
		factory:  factorypostgres.New(db),
		market:   marketpostgres.New(db),
		events:   outbox,
	}
	d, err := build(cfg, st, o)
	if err != nil {
		return nil, err
	}
	d.Outbox = outbox
	return d, nil
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), registerer: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func build(cfg *config.Config, st stores, o options) (*Deployment, error) {
	p := cfg.Principals
	registryHandle := capability.Mint("registry")

	publisher, err := events.NewPublisher(st.events,
		events.WithLogger(o.logger),
		events.WithRegisterer(o.registerer),
	)
	if err != nil {
		return nil, err
	}

	assets, err := asset.New(st.assets, st.runner)
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewService(st.tokens, assets, st.runner)
	if err != nil {
		return nil, err
	}

	vault, err := vaultservice.New(st.vault, assets, st.runner, vaultservice.Config{
		Address:      VaultAddress,
		PaymentAsset: p.PaymentAsset,
	}, registryHandle,
		vaultservice.WithLogger(o.logger),
		vaultservice.WithPublisher(publisher),
	)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	marketOpts := []marketservice.Option{
		marketservice.WithLogger(o.logger),
		marketservice.WithPublisher(publisher),
		marketservice.WithMetrics(marketmetrics.New(o.registerer)),
	}
	if o.liquiditySeeder != nil {
		marketOpts = append(marketOpts, marketservice.WithLiquiditySeeder(o.liquiditySeeder))
	}
	market, err := marketservice.New(st.market, tokens, assets, st.runner, marketservice.Config{
		Address:      MarketAddress,
		Owner:        p.Operator,
		PaymentAsset: p.PaymentAsset,
		SaleDuration: cfg.Market.SaleDuration,
	}, marketOpts...)
	if err != nil {
		return nil, fmt.Errorf("market: %w", err)
	}

	factory, err := factoryservice.New(st.factory, tokens, st.runner, factoryservice.Config{
		Address:      FactoryAddress,
		Owner:        p.Operator,
		FeeRecipient: p.FeeRecipient,
		Market:       MarketAddress,
	}, registryHandle,
		factoryservice.WithLogger(o.logger),
		factoryservice.WithPublisher(publisher),
		factoryservice.WithSales(market),
	)
	if err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}

	registry, err := registryservice.New(st.registry, vault, factory, st.runner, registryHandle, registryservice.Config{
		Owner:    p.Operator,
		Treasury: p.Treasury,
	},
		registryservice.WithLogger(o.logger),
		registryservice.WithPublisher(publisher),
		registryservice.WithMetrics(registrymetrics.New(o.registerer)),
	)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}

	return &Deployment{
		Runner:   st.runner,
		Assets:   assets,
		Payment:  asset.NewPayment(assets, p.PaymentAsset, p.Operator, o.logger),
		Tokens:   tokens,
		Vault:    vault,
		Registry: registry,
		Factory:  factory,
		Market:   market,
		Events:   publisher,
	}, nil
}

// Bootstrap adds the configured verifiers on behalf of the operator.
// Verifiers already present are left alone.
func (d *Deployment) Bootstrap(ctx context.Context, p config.Principals) error {
	ctx = requestcontext.WithCaller(ctx, p.Operator)
	for _, v := range p.Verifiers {
		if err := d.Registry.AddVerifier(ctx, v); err != nil {
			return fmt.Errorf("add verifier %s: %w", v, err)
		}
	}
	return nil
}
