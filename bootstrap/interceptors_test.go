package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/event"
	"github.com/c360/wirekit/extension"
)

func newInterceptorPhase(logger *slog.Logger) *interceptorPhase {
	if logger == nil {
		logger = discardLogger()
	}
	return &interceptorPhase{
		classifier: extension.NewClassifier(nil),
		logger:     logger,
	}
}

func TestInterceptorPhase_ChainLayout(t *testing.T) {
	r := definition.NewRegistry()

	plain := &testInterceptor{name: "plain"}
	registerExtension(t, r, "plain", plain, definition.CapabilityInterceptor)

	// Priority tier, but the merged-definition capability defers it to the
	// internal tail segment, after the Plain interceptor.
	merged := &mergedTestInterceptor{testInterceptor: testInterceptor{name: "merged", rank: 1}}
	registerExtension(t, r, "merged", merged,
		definition.CapabilityInterceptor, definition.CapabilityPriority)

	require.NoError(t, newInterceptorPhase(nil).run(r, event.NewBus(nil)))

	chain := r.Interceptors()
	require.Len(t, chain, 4)

	_, isChecker := chain[0].(*chainChecker)
	assert.True(t, isChecker, "checker sentinel must lead the chain")
	assert.Same(t, plain, chain[1])
	assert.Same(t, merged, chain[2])
	_, isDetector := chain[3].(*listenerDetector)
	assert.True(t, isDetector, "listener detector must close the chain")
}

func TestInterceptorPhase_TierOrder(t *testing.T) {
	r := definition.NewRegistry()

	plain := &testInterceptor{name: "plain"}
	ordered := &testInterceptor{name: "ordered", rank: 4}
	priority := &testInterceptor{name: "priority", rank: 9}

	registerExtension(t, r, "plain", plain, definition.CapabilityInterceptor)
	registerExtension(t, r, "ordered", ordered,
		definition.CapabilityInterceptor, definition.CapabilityRanked)
	registerExtension(t, r, "priority", priority,
		definition.CapabilityInterceptor, definition.CapabilityPriority)

	require.NoError(t, newInterceptorPhase(nil).run(r, event.NewBus(nil)))

	chain := r.Interceptors()
	require.Len(t, chain, 5)
	assert.Same(t, priority, chain[1])
	assert.Same(t, ordered, chain[2])
	assert.Same(t, plain, chain[3])
}

func TestInterceptorPhase_CheckerNotesEarlyRealization(t *testing.T) {
	handler := &recordingHandler{}
	r := definition.NewRegistry()

	require.NoError(t, r.Register(&definition.Definition{
		Name:    "dep",
		Factory: func(*definition.Registry) (any, error) { return struct{}{}, nil },
	}))

	// The interceptor realizes an ordinary component while constructing
	// itself; that component structurally cannot be seen by interceptors
	// that are not installed yet.
	require.NoError(t, r.Register(&definition.Definition{
		Name:         "eager",
		Role:         definition.RoleInfrastructure,
		Capabilities: []definition.Capability{definition.CapabilityInterceptor},
		Factory: func(reg *definition.Registry) (any, error) {
			if _, err := reg.Realize("dep"); err != nil {
				return nil, err
			}
			return &testInterceptor{name: "eager"}, nil
		},
	}))

	phase := newInterceptorPhase(slog.New(handler))
	require.NoError(t, phase.run(r, event.NewBus(nil)))

	note := "component is not eligible for processing by all interceptors"
	assert.Equal(t, 1, handler.count(slog.LevelInfo, note))

	// Once the chain reached its target, realizations stay quiet.
	require.NoError(t, r.Register(&definition.Definition{
		Name:    "late",
		Factory: func(*definition.Registry) (any, error) { return struct{}{}, nil },
	}))
	_, err := r.Realize("late")
	require.NoError(t, err)
	assert.Equal(t, 1, handler.count(slog.LevelInfo, note))
}

func TestInterceptorPhase_CheckerIgnoresInfrastructure(t *testing.T) {
	handler := &recordingHandler{}
	r := definition.NewRegistry()

	require.NoError(t, r.Register(&definition.Definition{
		Name:    "infra-dep",
		Role:    definition.RoleInfrastructure,
		Factory: func(*definition.Registry) (any, error) { return struct{}{}, nil },
	}))
	require.NoError(t, r.Register(&definition.Definition{
		Name:         "eager",
		Role:         definition.RoleInfrastructure,
		Capabilities: []definition.Capability{definition.CapabilityInterceptor},
		Factory: func(reg *definition.Registry) (any, error) {
			if _, err := reg.Realize("infra-dep"); err != nil {
				return nil, err
			}
			return &testInterceptor{name: "eager"}, nil
		},
	}))

	require.NoError(t, newInterceptorPhase(slog.New(handler)).run(r, event.NewBus(nil)))

	note := "component is not eligible for processing by all interceptors"
	assert.Equal(t, 0, handler.count(slog.LevelInfo, note))
}

func TestListenerDetector_RegistersSingletonListeners(t *testing.T) {
	r := definition.NewRegistry()
	bus := event.NewBus(nil)
	r.AddInterceptor(newListenerDetector(r, bus, discardLogger()))

	listener := &testListener{}
	require.NoError(t, r.Register(&definition.Definition{
		Name:    "audit",
		Scope:   definition.ScopeSingleton,
		Factory: func(*definition.Registry) (any, error) { return listener, nil },
	}))

	_, err := r.Realize("audit")
	require.NoError(t, err)
	assert.Equal(t, 1, bus.ListenerCount())

	bus.Publish(event.Event{Type: "container.ready"})
	require.Len(t, listener.events, 1)
	assert.Equal(t, "container.ready", listener.events[0].Type)

	// Destruction deregisters.
	r.DestroySingletons()
	assert.Equal(t, 0, bus.ListenerCount())
}

func TestListenerDetector_PrototypeWarnsOnce(t *testing.T) {
	handler := &recordingHandler{}
	r := definition.NewRegistry()
	bus := event.NewBus(nil)
	r.AddInterceptor(newListenerDetector(r, bus, slog.New(handler)))

	require.NoError(t, r.Register(&definition.Definition{
		Name:    "transient-audit",
		Scope:   definition.ScopePrototype,
		Factory: func(*definition.Registry) (any, error) { return &testListener{}, nil },
	}))

	for range 3 {
		_, err := r.Realize("transient-audit")
		require.NoError(t, err)
	}

	warning := "listener component is not a singleton and will not receive events"
	assert.Equal(t, 1, handler.count(slog.LevelWarn, warning))
	assert.Equal(t, 0, bus.ListenerCount())
}
