package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/just-aly/tryfit-backend/pkg/config"
	"github.com/just-aly/tryfit-backend/pkg/db/models"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	"github.com/just-aly/tryfit-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	f.remove(id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, _ error) error {
	f.failed = append(f.failed, id)
	f.remove(id)
	return nil
}

func (f *fakeRepo) remove(id uuid.UUID) {
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	f.events = kept
}

type fakeResult struct {
	id  string
	err error
}

func (r fakeResult) Get(context.Context) (string, error) { return r.id, r.err }

type fakePublisher struct {
	messages []*gcppubsub.Message
	errs     map[string]error
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if err, ok := p.errs[msg.Attributes["event_id"]]; ok {
		return fakeResult{err: err}
	}
	return fakeResult{id: "server-id"}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testEvent() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"version":1}`),
		CreatedAt:     time.Now(),
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	first := testEvent()
	second := testEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch processed")
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected 2 published, got %d", len(repo.published))
	}
	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.messages))
	}
	if pub.messages[0].Attributes["event_type"] != string(enums.EventOrderPlaced) {
		t.Fatalf("unexpected event type attribute %q", pub.messages[0].Attributes["event_type"])
	}
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	bad := testEvent()
	good := testEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{bad, good}}
	pub := &fakePublisher{errs: map[string]error{bad.ID.String(): errors.New("broker down")}}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != bad.ID {
		t.Fatalf("expected %s marked failed, got %v", bad.ID, repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != good.ID {
		t.Fatalf("expected %s published, got %v", good.ID, repo.published)
	}
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if processed {
		t.Fatal("expected nothing processed")
	}
}

func TestNextBackoffCapped(t *testing.T) {
	base := 500 * time.Millisecond
	current := base
	for i := 0; i < 10; i++ {
		current = nextBackoff(current, base)
	}
	if current != maxBackoff {
		t.Fatalf("expected backoff capped at %s, got %s", maxBackoff, current)
	}
}
