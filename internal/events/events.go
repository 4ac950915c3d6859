// Package events is a small in-process pub/sub bus. The service layer
// publishes calendar changes; cache invalidation and the Sheets mirror
// subscribe to them.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types published by the service layer.
const (
	TypeSlotCreated     = "slot.created"
	TypeSlotUpdated     = "slot.updated"
	TypeSlotDeleted     = "slot.deleted"
	TypeTemplateApplied = "template.applied"
	TypeHoursChanged    = "hours.changed"
)

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	UserID    string
	SlotID    string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event) error

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewBus constructs an empty bus. Handler failures are reported through
// logger; subscribers stay best-effort.
func NewBus(logger *zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously in subscription order; a failing handler is logged and
// does not stop the rest.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for i, handler := range handlers {
		if err := handler(event); err != nil {
			b.logger.Error().
				Err(err).
				Str("event_type", event.Type).
				Int("subscriber", i).
				Msg("event handler failed")
		}
	}
}
