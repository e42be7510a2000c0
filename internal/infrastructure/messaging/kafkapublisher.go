// Package messaging carries ticket events over Kafka for deployments that
// need a durable log instead of Redis Pub/Sub.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"fastighet/internal/domain/shared/events"
	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

// recordProducer is the slice of *kgo.Client the publisher needs.
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaTicketEventPublisher writes each event as one JSON record keyed by the
// ticket id, so all events of a ticket land on the same partition in order.
type KafkaTicketEventPublisher struct {
	producer recordProducer
	topic    string
	logger   logger.Interface
}

func NewKafkaTicketEventPublisher(cfg config.KafkaConfig, topic string, logger logger.Interface) (*KafkaTicketEventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is not configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return newKafkaTicketEventPublisher(client, topic, logger), nil
}

func newKafkaTicketEventPublisher(producer recordProducer, topic string, logger logger.Interface) *KafkaTicketEventPublisher {
	return &KafkaTicketEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (p *KafkaTicketEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.GetAggregateID()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.GetEventType())},
		},
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.Errorw("failed to produce ticket event",
			"aggregate_id", event.GetAggregateID(),
			"event_type", event.GetEventType(),
			"topic", p.topic,
			"error", err,
		)
		return fmt.Errorf("failed to produce event: %w", err)
	}

	p.logger.Debugw("ticket event produced",
		"aggregate_id", event.GetAggregateID(),
		"event_type", event.GetEventType(),
		"topic", p.topic,
	)
	return nil
}

func (p *KafkaTicketEventPublisher) Close() {
	p.producer.Close()
}
