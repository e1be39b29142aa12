package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	events []Event
}

func (r *recordingListener) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func TestBus_AddAndPublish(t *testing.T) {
	bus := NewBus(nil)
	listener := &recordingListener{}

	bus.AddListener(listener)
	require.Equal(t, 1, bus.ListenerCount())

	bus.Publish(Event{Type: "container.started", Source: "orchestrator"})

	require.Len(t, listener.events, 1)
	assert.Equal(t, "container.started", listener.events[0].Type)
	assert.False(t, listener.events[0].Timestamp.IsZero())
}

func TestBus_DuplicateAddIsNoop(t *testing.T) {
	bus := NewBus(nil)
	listener := &recordingListener{}

	bus.AddListener(listener)
	bus.AddListener(listener)
	assert.Equal(t, 1, bus.ListenerCount())

	bus.Publish(Event{Type: "x"})
	assert.Len(t, listener.events, 1)
}

func TestBus_RemoveListener(t *testing.T) {
	bus := NewBus(nil)
	first := &recordingListener{}
	second := &recordingListener{}

	bus.AddListener(first)
	bus.AddListener(second)

	assert.True(t, bus.RemoveListener(first))
	assert.False(t, bus.RemoveListener(first))
	assert.Equal(t, 1, bus.ListenerCount())

	bus.Publish(Event{Type: "x"})
	assert.Empty(t, first.events)
	assert.Len(t, second.events, 1)
}

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus(nil)

	var order []string
	bus.AddListener(&orderListener{slot: "first", order: &order})
	bus.AddListener(&orderListener{slot: "second", order: &order})

	bus.Publish(Event{Type: "x"})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_PreservesExplicitTimestamp(t *testing.T) {
	bus := NewBus(nil)
	listener := &recordingListener{}
	bus.AddListener(listener)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	bus.Publish(Event{Type: "x", Timestamp: ts})

	require.Len(t, listener.events, 1)
	assert.Equal(t, ts, listener.events[0].Timestamp)
}

type orderListener struct {
	slot  string
	order *[]string
}

func (o *orderListener) OnEvent(Event) { *o.order = append(*o.order, o.slot) }
