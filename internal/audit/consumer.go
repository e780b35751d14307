package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/voxgate/voxgate/internal/events"
)

// Consumer listens on the generation event subject and persists entries to
// the database.
type Consumer struct {
	repo        *Repository
	consumerMgr *events.ConsumerManager
}

// NewConsumer creates a new generation event Consumer.
func NewConsumer(repo *Repository, consumerMgr *events.ConsumerManager) *Consumer {
	return &Consumer{
		repo:        repo,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, events.StreamEvents, "audit-persister", events.SubjectGeneration)
	if err != nil {
		return err
	}

	slog.Info("audit consumer started", "consumer", "audit-persister")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(events.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("audit consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func entryFromEvent(event events.GenerationEvent) *Entry {
	entry := &Entry{
		ID:           uuid.New(),
		RequestID:    event.RequestID,
		CredentialID: event.CredentialID,
		VoiceID:      event.VoiceID,
		Outcome:      event.Outcome,
		DenyReason:   event.DenyReason,
		FailureClass: event.FailureClass,
		Detail:       event.Detail,
		TextChars:    event.TextChars,
		Cached:       event.Cached,
		CreatedAt:    event.Timestamp,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return entry
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event events.GenerationEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("audit consumer: unmarshaling event", "error", err)
		_ = msg.Nak()
		return
	}

	entry := entryFromEvent(event)

	if err := c.repo.Insert(ctx, entry); err != nil {
		slog.Error("audit consumer: persisting entry", "error", err, "outcome", event.Outcome)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()

	slog.Debug("audit consumer: persisted event",
		"outcome", event.Outcome,
		"credential_id", event.CredentialID,
		"request_id", event.RequestID,
	)
}
