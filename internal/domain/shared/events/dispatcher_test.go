package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseEvent
}

func newTestEvent(eventType string) testEvent {
	return testEvent{BaseEvent{AggregateID: "1", EventType: eventType, OccurredAt: time.Now(), Version: 1}}
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus()
	var created, all []string

	require.NoError(t, bus.Subscribe("CREATED", EventHandlerFunc(func(_ context.Context, e DomainEvent) error {
		created = append(created, e.GetEventType())
		return nil
	})))
	require.NoError(t, bus.Subscribe(AllEvents, EventHandlerFunc(func(_ context.Context, e DomainEvent) error {
		all = append(all, e.GetEventType())
		return nil
	})))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("CREATED")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ASSIGNED")))

	assert.Equal(t, []string{"CREATED"}, created)
	assert.Equal(t, []string{"CREATED", "ASSIGNED"}, all)
}

func TestInMemoryEventBus_ReturnsHandlerErrors(t *testing.T) {
	bus := NewInMemoryEventBus()
	boom := errors.New("smtp down")
	require.NoError(t, bus.Subscribe(AllEvents, EventHandlerFunc(func(context.Context, DomainEvent) error {
		return boom
	})))

	err := bus.Publish(context.Background(), newTestEvent("CREATED"))

	assert.ErrorIs(t, err, boom)
}

func TestInMemoryEventBus_RejectsBadSubscriptions(t *testing.T) {
	bus := NewInMemoryEventBus()
	assert.Error(t, bus.Subscribe("", EventHandlerFunc(nil)))
	assert.Error(t, bus.Subscribe("CREATED", nil))
	assert.Error(t, bus.Publish(context.Background(), nil))
}
