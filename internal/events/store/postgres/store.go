package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"landledger/internal/events"
	txcontext "landledger/pkg/platform/tx"
)

// Store implements events.Store with the transactional outbox pattern.
// Rows are written in the ledger transaction and published to Kafka by the relay.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// OutboxEntry is an unpublished outbox row.
type OutboxEntry struct {
	ID          uuid.UUID
	Kind        events.Kind
	AggregateID string
	Payload     []byte
	CreatedAt   time.Time
}

// Append writes the event to the outbox table.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		event.ID,
		string(event.Component),
		event.Subject,
		string(event.Kind),
		string(payload),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnpublished returns up to limit unpublished rows in insertion order.
// Rows are locked with SKIP LOCKED so concurrent relays do not double-publish.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]OutboxEntry, error) {
	query := `
		SELECT id, event_type, aggregate_id, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []OutboxEntry
	for rows.Next() {
		var (
			e    OutboxEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &kind, &e.AggregateID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Kind = events.Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return entries, nil
}

// MarkPublished stamps the given rows as delivered.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, at, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// RunInTx runs fn in a plain SQL transaction; the relay uses it to hold row locks
// between fetch and mark.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
