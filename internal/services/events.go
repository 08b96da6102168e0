package services

import (
	"context"
	"time"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/rs/zerolog"
)

// EventPublisher delivers inventory change events.
type EventPublisher interface {
	Publish(ctx context.Context, event mq.Event) (string, error)
}

// notifier publishes events without letting a broker failure affect the
// request that caused them.
type notifier struct {
	publisher EventPublisher
	logger    zerolog.Logger
}

func (n notifier) notify(ctx context.Context, event mq.Event) {
	if n.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if _, err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}
