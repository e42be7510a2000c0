package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// InMemoryEventBus delivers events synchronously to subscribed handlers in
// subscription order. It backs single-process deployments and tests.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	wildcard []EventHandler
}

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{handlers: make(map[string][]EventHandler)}
}

func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if eventType == AllEvents {
		b.wildcard = append(b.wildcard, handler)
		return nil
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish runs every matching handler and joins their errors.
func (b *InMemoryEventBus) Publish(ctx context.Context, event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	b.mu.RLock()
	targets := make([]EventHandler, 0, len(b.handlers[event.GetEventType()])+len(b.wildcard))
	targets = append(targets, b.handlers[event.GetEventType()]...)
	targets = append(targets, b.wildcard...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range targets {
		if !h.CanHandle(event.GetEventType()) {
			continue
		}
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("handler for %s: %w", event.GetEventType(), err))
		}
	}
	return errors.Join(errs...)
}
