package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"landledger/pkg/domain"
)

// Prefix is prepended to every environment variable name.
const Prefix = "LANDLEDGER_"

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config is the process configuration.
type Config struct {
	Server     Server      `envPrefix:"HTTP_"`
	Backend    string      `env:"STORE_BACKEND" envDefault:"memory"`
	Postgres   Postgres    `envPrefix:"POSTGRES_"`
	Redis      RedisConfig `envPrefix:"REDIS_"`
	Kafka      Kafka       `envPrefix:"KAFKA_"`
	Auth       Auth        `envPrefix:"JWT_"`
	Principals Principals  `envPrefix:"ADDR_"`
	Market     Market      `envPrefix:"MARKET_"`
	RateLimit  RateLimit   `envPrefix:"RATELIMIT_"`
	OTEL       OTEL        `envPrefix:"OTEL_"`
	LogLevel   string      `env:"LOG_LEVEL" envDefault:"info"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Postgres struct {
	DSN          string        `env:"DSN"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	TxTimeout    time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`
}

// RedisConfig configures the optional Redis client. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// Kafka configures the event outbox relay. No brokers disables it.
type Kafka struct {
	Brokers      []string      `env:"BROKERS" envSeparator:","`
	Topic        string        `env:"TOPIC" envDefault:"landledger.events"`
	Partitions   int32         `env:"PARTITIONS" envDefault:"3"`
	Replicas     int16         `env:"REPLICAS" envDefault:"1"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"100"`
}

type Auth struct {
	SigningKey string        `env:"SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string        `env:"ISSUER" envDefault:"landledger"`
	Audience   string        `env:"AUDIENCE" envDefault:"landledger-api"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// Principals are the well-known accounts of a deployment. Unset addresses
// fall back to deterministic development values.
type Principals struct {
	Operator     domain.Address `env:"OPERATOR"`
	Treasury     domain.Address `env:"TREASURY"`
	FeeRecipient domain.Address `env:"FEE_RECIPIENT"`
	PaymentAsset domain.Address `env:"PAYMENT_ASSET"`
	// Verifiers are added to the registry at startup.
	Verifiers []domain.Address `env:"VERIFIERS" envSeparator:","`
}

type Market struct {
	SaleDuration time.Duration `env:"SALE_DURATION" envDefault:"720h"`
	// SweepSchedule is the cron schedule for finalizing ended sales. Empty, the
	// default, leaves finalization to callers.
	SweepSchedule string `env:"SWEEP_SCHEDULE"`
}

type RateLimit struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Requests int           `env:"REQUESTS" envDefault:"60"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
}

type OTEL struct {
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"landledger"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Principals.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%sPOSTGRES_DSN is required for the postgres backend", Prefix)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	if len(c.Kafka.Brokers) > 0 && c.Backend != BackendPostgres {
		return fmt.Errorf("the kafka relay requires the postgres backend")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	if c.Market.SaleDuration <= 0 {
		return fmt.Errorf("sale duration must be positive")
	}
	return nil
}

func (p *Principals) applyDefaults() {
	for _, f := range []struct {
		addr  *domain.Address
		label string
	}{
		{&p.Operator, "operator"},
		{&p.Treasury, "treasury"},
		{&p.FeeRecipient, "fee-recipient"},
		{&p.PaymentAsset, "payment-asset"},
	} {
		if f.addr.IsZero() {
			*f.addr = domain.DeriveAddress("landledger/" + f.label)
		}
	}
}
