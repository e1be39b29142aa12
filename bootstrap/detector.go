package bootstrap

import (
	"log/slog"
	"sync"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/event"
)

// listenerDetector is the tail sentinel bridging realized components into
// the event bus. It records singleton scope when a definition is merged and,
// after initialization, registers singleton listeners on the bus. A
// non-singleton listener cannot be reliably tracked for deregistration, so
// it is warned about once and never registered. The lookup is scoped to one
// orchestration run.
type listenerDetector struct {
	registry *definition.Registry
	bus      *event.Bus
	logger   *slog.Logger

	mu         sync.Mutex
	singletons map[string]bool
}

func newListenerDetector(registry *definition.Registry, bus *event.Bus, logger *slog.Logger) *listenerDetector {
	return &listenerDetector{
		registry:   registry,
		bus:        bus,
		logger:     logger,
		singletons: make(map[string]bool),
	}
}

// InterceptMergedDefinition records whether the component is a singleton.
func (d *listenerDetector) InterceptMergedDefinition(name string, def *definition.Definition) {
	if def.IsSingleton() {
		d.mu.Lock()
		d.singletons[name] = true
		d.mu.Unlock()
	}
}

// BeforeInit passes the instance through untouched.
func (d *listenerDetector) BeforeInit(_ string, instance any) (any, error) {
	return instance, nil
}

// AfterInit registers singleton listeners on the bus. Non-singleton
// listeners trigger a single warning; the false entry silences repeats.
func (d *listenerDetector) AfterInit(name string, instance any) (any, error) {
	listener, ok := instance.(event.Listener)
	if !ok {
		return instance, nil
	}

	d.mu.Lock()
	flag, seen := d.singletons[name]
	if !seen {
		d.singletons[name] = false
	}
	d.mu.Unlock()

	switch {
	case seen && flag:
		d.bus.AddListener(listener)
	case !seen:
		d.logger.Warn("listener component is not a singleton and will not receive events",
			"component", name)
	}
	return instance, nil
}

// BeforeDestruction deregisters the listener from the bus.
func (d *listenerDetector) BeforeDestruction(name string, instance any) {
	listener, ok := instance.(event.Listener)
	if !ok {
		return
	}
	d.bus.RemoveListener(listener)

	d.mu.Lock()
	delete(d.singletons, name)
	d.mu.Unlock()
}
