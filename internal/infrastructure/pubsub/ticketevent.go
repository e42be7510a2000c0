package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fastighet/internal/domain/shared/events"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/shared/logger"
)

// DefaultTicketEventChannel is used when no channel is configured.
const DefaultTicketEventChannel = "fastighet.ticket.events"

// TicketEventHandler is a callback for decoded ticket events.
type TicketEventHandler func(ctx context.Context, event *ticket.TicketEvent)

// RedisTicketEventBus publishes ticket events as JSON over Redis Pub/Sub and
// lets workers subscribe to the same channel. Pub/Sub gives at-most-once
// delivery, which is all the event contract promises.
type RedisTicketEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisTicketEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisTicketEventBus {
	if channel == "" {
		channel = DefaultTicketEventChannel
	}
	return &RedisTicketEventBus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *RedisTicketEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish ticket event",
			"aggregate_id", event.GetAggregateID(),
			"event_type", event.GetEventType(),
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("ticket event published",
		"aggregate_id", event.GetAggregateID(),
		"event_type", event.GetEventType(),
		"channel", b.channel,
	)
	return nil
}

// Subscribe blocks, handing every decodable event to handler in arrival
// order, until ctx is cancelled or the channel closes.
func (b *RedisTicketEventBus) Subscribe(ctx context.Context, handler TicketEventHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to ticket events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("ticket event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("ticket event channel closed")
				return nil
			}

			event, err := DecodeTicketEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warnw("failed to decode ticket event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// handled inline so per-ticket order is kept
			handler(ctx, event)
		}
	}
}

// DecodeTicketEvent parses a published payload and rejects messages that
// are not ticket events.
func DecodeTicketEvent(payload []byte) (*ticket.TicketEvent, error) {
	var event ticket.TicketEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket event: %w", err)
	}
	if !event.Type().IsValid() {
		return nil, fmt.Errorf("unknown ticket event type %q", event.EventType)
	}
	if event.TicketID == 0 {
		return nil, fmt.Errorf("ticket event without ticket id")
	}
	return &event, nil
}
