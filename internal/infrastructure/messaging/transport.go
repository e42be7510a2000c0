package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fastighet/internal/domain/shared/events"
	"fastighet/internal/infrastructure/pubsub"
	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverKafka  = "kafka"
)

// EffectiveDriver maps an unset events driver to DriverMemory.
func EffectiveDriver(driver string) string {
	if driver == "" {
		return DriverMemory
	}
	return driver
}

// TicketEventSubscriber is implemented by the Redis bus and the Kafka consumer.
type TicketEventSubscriber interface {
	Subscribe(ctx context.Context, handler pubsub.TicketEventHandler) error
}

// NewTicketEventPublisher returns the publisher selected by cfg.Driver and a
// func releasing it. redisClient is only used by the redis driver.
func NewTicketEventPublisher(
	cfg config.EventsConfig,
	kafkaCfg config.KafkaConfig,
	redisClient *redis.Client,
	log logger.Interface,
) (events.EventPublisher, func(), error) {
	channel := cfg.Channel
	if channel == "" {
		channel = pubsub.DefaultTicketEventChannel
	}

	switch EffectiveDriver(cfg.Driver) {
	case DriverMemory:
		return events.NewInMemoryEventBus(), func() {}, nil
	case DriverRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("redis event driver requires a redis client")
		}
		return pubsub.NewRedisTicketEventBus(redisClient, channel, log), func() {}, nil
	case DriverKafka:
		publisher, err := NewKafkaTicketEventPublisher(kafkaCfg, channel, log)
		if err != nil {
			return nil, nil, err
		}
		return publisher, publisher.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
}

// NewTicketEventSubscriber returns the out-of-process subscriber for
// cfg.Driver. The memory driver has none.
func NewTicketEventSubscriber(
	cfg config.EventsConfig,
	kafkaCfg config.KafkaConfig,
	group string,
	redisClient *redis.Client,
	log logger.Interface,
) (TicketEventSubscriber, error) {
	channel := cfg.Channel
	if channel == "" {
		channel = pubsub.DefaultTicketEventChannel
	}

	switch driver := EffectiveDriver(cfg.Driver); driver {
	case DriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis event driver requires a redis client")
		}
		return pubsub.NewRedisTicketEventBus(redisClient, channel, log), nil
	case DriverKafka:
		return NewKafkaTicketEventConsumer(kafkaCfg, channel, group, log)
	default:
		return nil, fmt.Errorf("events driver %q has no subscriber", driver)
	}
}
