package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Inventory event types.
const (
	CompanyCreated = "company.created"
	CompanyUpdated = "company.updated"
	CompanyDeleted = "company.deleted"
	ProductCreated = "product.created"
	ProductMerged  = "product.merged"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// attrType is the message attribute carrying the event type, so consumers
// can route without decoding the body.
const attrType = "type"

// Event describes one change to the inventory.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Company    *types.Company `json:"company,omitempty"`
	Product    *types.Product `json:"product,omitempty"`
}

// DecodeEvent parses a message published by Publisher.
func DecodeEvent(msg Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return Event{}, fmt.Errorf("decode event %s: %w", msg.ID, err)
	}
	if event.Type == "" {
		event.Type = msg.Attributes[attrType]
	}
	return event, nil
}

// Publisher encodes inventory events onto a single channel of a backend.
type Publisher struct {
	backend Backend
	channel string
	logger  zerolog.Logger
}

// NewPublisher constructs a Publisher for the provided backend and channel.
func NewPublisher(backend Backend, channel string) *Publisher {
	return &Publisher{backend: backend, channel: channel, logger: zerolog.Nop()}
}

// WithLogger sets the logger used to report messages Subscribe skips.
func (p *Publisher) WithLogger(logger zerolog.Logger) *Publisher {
	p.logger = logger.With().Str("channel", p.channel).Logger()
	return p
}

// Publish sends event and returns the broker-assigned message id.
func (p *Publisher) Publish(ctx context.Context, event Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return p.backend.Publish(ctx, p.channel, data, map[string]string{attrType: event.Type})
}

// Subscribe delivers decoded events from the channel until ctx ends.
// Undecodable messages are logged, acknowledged and skipped.
func (p *Publisher) Subscribe(ctx context.Context, handle func(ctx context.Context, event Event) error) error {
	return p.backend.Subscribe(ctx, p.channel, func(ctx context.Context, msg Message) error {
		event, err := DecodeEvent(msg)
		if err != nil {
			p.logger.Warn().Err(err).Str("message_id", msg.ID).Int("size", len(msg.Data)).Msg("skipping undecodable event")
			return nil
		}
		return handle(ctx, event)
	})
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}

// Open constructs the backend selected by cfg. It returns nil when events
// are disabled.
func Open(ctx context.Context, cfg config.MQConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		backend, err := NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "pubsub":
		backend, err := NewPubSub(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported mq backend %q", cfg.Backend)
	}
}
