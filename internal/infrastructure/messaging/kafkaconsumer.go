package messaging

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"fastighet/internal/infrastructure/pubsub"
	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

// KafkaTicketEventConsumer reads ticket events as a member of a consumer group.
type KafkaTicketEventConsumer struct {
	client *kgo.Client
	logger logger.Interface
}

func NewKafkaTicketEventConsumer(cfg config.KafkaConfig, topic, group string, logger logger.Interface) (*KafkaTicketEventConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is not configured")
	}
	if group == "" {
		return nil, fmt.Errorf("kafka consumer group is not configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &KafkaTicketEventConsumer{client: client, logger: logger}, nil
}

// Subscribe polls until ctx is done. Records of a partition are handled in
// order; undecodable records are logged and skipped.
func (c *KafkaTicketEventConsumer) Subscribe(ctx context.Context, handler pubsub.TicketEventHandler) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Warnw("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})

		fetches.EachRecord(func(r *kgo.Record) {
			event, err := pubsub.DecodeTicketEvent(r.Value)
			if err != nil {
				c.logger.Warnw("failed to decode ticket event",
					"topic", r.Topic,
					"offset", r.Offset,
					"error", err,
				)
				return
			}
			handler(ctx, event)
		})
	}
}
