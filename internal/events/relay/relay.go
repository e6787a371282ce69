// Package relay publishes committed outbox events to Kafka.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"landledger/internal/events/store/postgres"
)

// Outbox is the subset of the postgres outbox store the relay needs.
type Outbox interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Producer is satisfied by *kgo.Client.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

const (
	defaultBatchSize    = 100
	defaultPollInterval = time.Second
)

// Relay polls the outbox and produces each row to a Kafka topic keyed by its aggregate.
type Relay struct {
	outbox       Outbox
	producer     Producer
	topic        string
	batchSize    int
	pollInterval time.Duration
	logger       *slog.Logger
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) { r.batchSize = n }
}

func WithPollInterval(d time.Duration) Option {
	return func(r *Relay) { r.pollInterval = d }
}

func New(outbox Outbox, producer Producer, topic string, opts ...Option) (*Relay, error) {
	if outbox == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	r := &Relay{
		outbox:       outbox,
		producer:     producer,
		topic:        topic,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		n, err := r.RelayOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
		}
		if n == r.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch and returns how many rows were delivered.
// Rows are marked only after Kafka acknowledged every record of the batch.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var delivered int
	err := r.outbox.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		records := make([]*kgo.Record, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			records[i] = &kgo.Record{
				Topic: r.topic,
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: []kgo.RecordHeader{
					{Key: "event_type", Value: []byte(e.Kind)},
					{Key: "event_id", Value: []byte(e.ID.String())},
				},
			}
			ids[i] = e.ID
		}
		if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
			return fmt.Errorf("produce outbox batch: %w", err)
		}
		if err := r.outbox.MarkPublished(ctx, ids, time.Now()); err != nil {
			return err
		}
		delivered = len(entries)
		return nil
	})
	return delivered, err
}

// EnsureTopic creates the topic if it does not exist.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicas int16) error {
	admin := kadm.NewClient(client)
	topics, err := admin.ListTopics(ctx, topic)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if topics.Has(topic) {
		return nil
	}
	resp, err := admin.CreateTopic(ctx, partitions, replicas, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}
