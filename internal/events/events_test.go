package events

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestBus() *Bus {
	logger := zerolog.New(io.Discard)
	return NewBus(&logger)
}

func TestPublishReachesSubscribers(t *testing.T) {
	bus := newTestBus()

	var seen []string
	bus.Subscribe(TypeSlotCreated, func(e Event) error {
		seen = append(seen, e.SlotID)
		return nil
	})
	bus.Subscribe(TypeSlotCreated, func(e Event) error {
		seen = append(seen, "second:"+e.SlotID)
		return nil
	})
	bus.Subscribe(TypeSlotDeleted, func(e Event) error {
		t.Fatal("wrong type delivered")
		return nil
	})

	bus.Publish(Event{Type: TypeSlotCreated, SlotID: "s1"})
	assert.Equal(t, []string{"s1", "second:s1"}, seen)
}

func TestPublishSetsCreatedAt(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe(TypeHoursChanged, func(e Event) error {
		assert.False(t, e.CreatedAt.IsZero())
		return nil
	})
	bus.Publish(Event{Type: TypeHoursChanged})
}

func TestHandlerErrorLoggedAndDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	bus := NewBus(&logger)

	var called bool
	bus.Subscribe(TypeSlotUpdated, func(e Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(TypeSlotUpdated, func(e Event) error {
		called = true
		return nil
	})
	bus.Publish(Event{Type: TypeSlotUpdated})

	assert.True(t, called)
	assert.Contains(t, buf.String(), "event handler failed")
	assert.Contains(t, buf.String(), TypeSlotUpdated)
}
