package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishGeneration publishes a generation outcome event.
func (p *Publisher) PublishGeneration(ctx context.Context, event GenerationEvent) error {
	return p.publish(ctx, SubjectGeneration, event)
}

// PublishRotation publishes a credential rotation event.
func (p *Publisher) PublishRotation(ctx context.Context, event RotationEvent) error {
	return p.publish(ctx, SubjectRotation, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
