// Package event provides the in-process event-notification facility for the
// container. Components satisfying the listener capability are registered on
// the Bus during bootstrap and receive every published event synchronously.
package event

import (
	"log/slog"
	"sync"
	"time"
)

// Event is a notification published on the Bus.
type Event struct {
	Type      string
	Source    string
	Payload   any
	Timestamp time.Time
}

// Listener receives events published on the Bus. Components declaring the
// event-listener capability must implement this interface.
type Listener interface {
	OnEvent(e Event)
}

// Bus multicasts events synchronously to registered listeners.
// Registration and deregistration are identity-based: the same listener
// value passed to AddListener must be passed to RemoveListener.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    *slog.Logger
}

// NewBus creates an empty event bus. A nil logger disables bus logging.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// AddListener registers a listener. Adding the same listener twice is a
// no-op.
func (b *Bus) AddListener(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.listeners {
		if existing == l {
			return
		}
	}
	b.listeners = append(b.listeners, l)
}

// RemoveListener deregisters a listener. Returns true if the listener was
// registered.
func (b *Bus) RemoveListener(l Listener) bool {
	if l == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.listeners {
		if existing == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (b *Bus) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Publish delivers the event to every registered listener, in registration
// order, on the caller's goroutine. Missing timestamps are filled in.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	snapshot := make([]Listener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.RUnlock()

	b.logger.Debug("publishing event",
		"type", e.Type,
		"source", e.Source,
		"listeners", len(snapshot))

	for _, l := range snapshot {
		l.OnEvent(e)
	}
}
