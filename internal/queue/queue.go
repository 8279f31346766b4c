package queue

import (
	"context"

	"messageboard/internal/domain"
)

const EventMessageCreated = "message.created"

type Publisher interface {
	Publish(ctx context.Context, msg domain.Message) error
	Close() error
}

// Event is the envelope written to the topic.
type Event struct {
	EventID string         `json:"event_id"`
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.Message) error { return nil }
func (Noop) Close() error                                  { return nil }
