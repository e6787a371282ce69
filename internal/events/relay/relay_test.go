package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"landledger/internal/events"
	"landledger/internal/events/store/postgres"
)

type fakeOutbox struct {
	pending   []postgres.OutboxEntry
	published []uuid.UUID
}

func (f *fakeOutbox) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, limit int) ([]postgres.OutboxEntry, error) {
	if len(f.pending) < limit {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID, _ time.Time) error {
	f.published = append(f.published, ids...)
	f.pending = f.pending[len(ids):]
	return nil
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

type RelaySuite struct {
	suite.Suite
	outbox   *fakeOutbox
	producer *fakeProducer
	relay    *Relay
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	s.outbox = &fakeOutbox{}
	s.producer = &fakeProducer{}
	r, err := New(s.outbox, s.producer, "landledger.events", WithBatchSize(2))
	s.Require().NoError(err)
	s.relay = r
}

func (s *RelaySuite) entry(kind events.Kind, aggregate string) postgres.OutboxEntry {
	return postgres.OutboxEntry{ID: uuid.New(), Kind: kind, AggregateID: aggregate, Payload: []byte(`{}`)}
}

func (s *RelaySuite) TestRelayOnce() {
	s.Run("publishes a batch keyed by aggregate and marks it", func() {
		first := s.entry(events.TokenCreated, "0xaa")
		second := s.entry(events.SaleStarted, "0xbb")
		third := s.entry(events.TokensPurchased, "0xbb")
		s.outbox.pending = []postgres.OutboxEntry{first, second, third}

		n, err := s.relay.RelayOnce(context.Background())
		s.Require().NoError(err)
		s.Equal(2, n)
		s.Equal([]uuid.UUID{first.ID, second.ID}, s.outbox.published)
		s.Require().Len(s.producer.records, 2)
		s.Equal([]byte("0xaa"), s.producer.records[0].Key)
		s.Equal("landledger.events", s.producer.records[0].Topic)
		s.Equal("event_type", s.producer.records[0].Headers[0].Key)
	})

	s.Run("produce failure leaves rows unpublished", func() {
		s.SetupTest()
		s.outbox.pending = []postgres.OutboxEntry{s.entry(events.SaleFinalized, "0xcc")}
		s.producer.err = errors.New("broker down")

		n, err := s.relay.RelayOnce(context.Background())
		s.Require().Error(err)
		s.Zero(n)
		s.Empty(s.outbox.published)
		s.Len(s.outbox.pending, 1)
	})
}

func (s *RelaySuite) TestNewValidatesDependencies() {
	_, err := New(nil, s.producer, "t")
	s.Error(err)
	_, err = New(s.outbox, nil, "t")
	s.Error(err)
	_, err = New(s.outbox, s.producer, "")
	s.Error(err)
}
