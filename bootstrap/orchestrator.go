// Package bootstrap drives container startup: it discovers, orders, and
// invokes the registry's extension hooks in three fixed phases (definition
// mutation, factory configuration, interceptor installation) before any
// ordinary component is realized. Execution is single-threaded and
// synchronous; any extension error aborts the run and the container exposes
// no partial service.
package bootstrap

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/event"
	"github.com/c360/wirekit/extension"
	"github.com/c360/wirekit/metric"
)

// Orchestrator is the single entry point for container startup. It is
// reusable: every Run gets a fresh processed set and listener lookup, so an
// orchestrator may bootstrap multiple registries (embedded or test
// harnesses that restart a container).
type Orchestrator struct {
	classifier *extension.Classifier
	bus        *event.Bus
	logger     *slog.Logger
	metrics    *bootstrapMetrics
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*orchestratorOptions)

type orchestratorOptions struct {
	comparator extension.Comparator
	bus        *event.Bus
	logger     *slog.Logger
	metrics    *metric.Registry
}

// WithComparator overrides the rank comparator used to order extensions
// within the Priority and Ordered tiers.
func WithComparator(compare extension.Comparator) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.comparator = compare
	}
}

// WithEventBus sets the bus the listener-detector sentinel registers
// listener components on. Without it the orchestrator creates its own.
func WithEventBus(bus *event.Bus) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.bus = bus
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.logger = logger
	}
}

// WithMetrics enables Prometheus metrics for orchestration runs.
func WithMetrics(metrics *metric.Registry) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.metrics = metrics
	}
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	options := &orchestratorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	bus := options.bus
	if bus == nil {
		bus = event.NewBus(logger)
	}

	metrics, err := newBootstrapMetrics(options.metrics)
	if err != nil {
		logger.Error("failed to initialize bootstrap metrics", "error", err)
		metrics = nil // Continue without metrics
	}

	return &Orchestrator{
		classifier: extension.NewClassifier(options.comparator),
		bus:        bus,
		logger:     logger,
		metrics:    metrics,
	}
}

// Bus returns the event bus listener components are registered on.
func (o *Orchestrator) Bus() *event.Bus {
	return o.bus
}

// Run bootstraps the registry: mutation, configuration, and interception
// phases in that fixed order, to completion, on the calling goroutine. On
// return all definitions are resolved, metadata is finalized, and the
// interceptor chain is fully installed. Any extension error aborts the run;
// already-applied mutations remain in the registry and the caller should
// discard it.
func (o *Orchestrator) Run(r *definition.Registry, external []definition.FactoryConfigurer) error {
	if r == nil {
		return errors.WrapInvalid(errors.ErrBootstrapAborted, "Orchestrator", "Run", "registry validation")
	}

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)
	logger.Info("bootstrap starting",
		"definitions", len(r.DefinitionNames()),
		"external_configurers", len(external))

	processed := newProcessedSet()

	mutators := &mutatorPhase{classifier: o.classifier, logger: logger, metrics: o.metrics}
	start := time.Now()
	err := mutators.run(r, external, processed)
	o.metrics.observePhase("mutation", time.Since(start))
	if err != nil {
		logger.Error("mutation phase failed", "error", err)
		return err
	}

	configurers := &configurerPhase{classifier: o.classifier, logger: logger, metrics: o.metrics}
	start = time.Now()
	err = configurers.run(r, processed)
	o.metrics.observePhase("configuration", time.Since(start))
	if err != nil {
		logger.Error("configuration phase failed", "error", err)
		return err
	}

	interceptors := &interceptorPhase{classifier: o.classifier, logger: logger, metrics: o.metrics}
	start = time.Now()
	err = interceptors.run(r, o.bus)
	o.metrics.observePhase("interception", time.Since(start))
	if err != nil {
		logger.Error("interception phase failed", "error", err)
		return err
	}

	o.metrics.recordDefinitions(len(r.DefinitionNames()))
	logger.Info("bootstrap complete",
		"definitions", len(r.DefinitionNames()),
		"interceptors", r.InterceptorCount())
	return nil
}
