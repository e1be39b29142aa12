package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/event"
)

// trace records invocation order across fake extensions.
type trace struct {
	calls []string
}

func (t *trace) record(call string) {
	t.calls = append(t.calls, call)
}

type testMutator struct {
	name     string
	rank     int
	trace    *trace
	onMutate func(r *definition.Registry) error
}

func (m *testMutator) Rank() int { return m.rank }

func (m *testMutator) MutateDefinitions(r *definition.Registry) error {
	m.trace.record("mutate:" + m.name)
	if m.onMutate != nil {
		return m.onMutate(r)
	}
	return nil
}

func (m *testMutator) ConfigureFactory(_ *definition.Registry) error {
	m.trace.record("configure:" + m.name)
	return nil
}

type testConfigurer struct {
	name        string
	rank        int
	trace       *trace
	onConfigure func(r *definition.Registry) error
}

func (c *testConfigurer) Rank() int { return c.rank }

func (c *testConfigurer) ConfigureFactory(r *definition.Registry) error {
	c.trace.record("configure:" + c.name)
	if c.onConfigure != nil {
		return c.onConfigure(r)
	}
	return nil
}

type testInterceptor struct {
	name  string
	rank  int
	trace *trace
}

func (i *testInterceptor) Rank() int { return i.rank }

func (i *testInterceptor) BeforeInit(_ string, instance any) (any, error) {
	return instance, nil
}

func (i *testInterceptor) AfterInit(_ string, instance any) (any, error) {
	return instance, nil
}

type mergedTestInterceptor struct {
	testInterceptor
	mergedNames []string
}

func (i *mergedTestInterceptor) InterceptMergedDefinition(name string, _ *definition.Definition) {
	i.mergedNames = append(i.mergedNames, name)
}

type testListener struct {
	events []event.Event
}

func (l *testListener) OnEvent(e event.Event) {
	l.events = append(l.events, e)
}

// registerExtension registers an infrastructure definition whose factory
// returns the given instance.
func registerExtension(t *testing.T, r *definition.Registry, name string, instance any, caps ...definition.Capability) {
	t.Helper()
	require.NoError(t, r.Register(&definition.Definition{
		Name:         name,
		Role:         definition.RoleInfrastructure,
		Capabilities: caps,
		Factory: func(*definition.Registry) (any, error) {
			return instance, nil
		},
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// recordingHandler captures slog records so tests can count diagnostics.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func (h *recordingHandler) count(level slog.Level, message string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level && r.Message == message {
			n++
		}
	}
	return n
}
