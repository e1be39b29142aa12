package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/event"
	"github.com/c360/wirekit/extension"
)

// interceptorPhase discovers every interceptor-capable component and
// installs the chain: checker sentinel first, then the real interceptors in
// tier order, then every merged-definition interceptor re-installed at the
// tail, then the listener-detector sentinel last.
type interceptorPhase struct {
	classifier *extension.Classifier
	logger     *slog.Logger
	metrics    *bootstrapMetrics
}

func (p *interceptorPhase) run(r *definition.Registry, bus *event.Bus) error {
	names := r.NamesForCapability(definition.CapabilityInterceptor)

	// Target chain length once this phase completes: what is already
	// installed, the checker itself, and every discovered interceptor.
	target := r.InterceptorCount() + 1 + len(names)
	r.AddInterceptor(newChainChecker(r, target, p.logger))

	var priority, ordered, plain []extension.Candidate
	var internal []extension.Candidate

	for _, name := range names {
		instance, err := r.Realize(name)
		if err != nil {
			return errors.Wrap(err, "InterceptorPhase", "Run", "interceptor realization")
		}
		interceptor, ok := instance.(definition.Interceptor)
		if !ok {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %q declares the interceptor capability but does not implement it", errors.ErrMissingCapability, name),
				"InterceptorPhase", "Run", "interceptor capability check")
		}

		candidate := extension.Candidate{Name: name, Value: interceptor}
		switch {
		case r.HasCapability(name, definition.CapabilityPriority):
			priority = append(priority, candidate)
		case r.HasCapability(name, definition.CapabilityRanked):
			ordered = append(ordered, candidate)
		default:
			plain = append(plain, candidate)
		}

		// Merged-definition interceptors are collected across all tiers;
		// they are re-installed at the tail so they always observe component
		// lifecycles after every ordinary interceptor.
		if _, merged := instance.(definition.MergedInterceptor); merged {
			internal = append(internal, candidate)
		}
	}

	p.classifier.Sort(priority)
	p.install(r, priority)
	p.classifier.Sort(ordered)
	p.install(r, ordered)
	p.install(r, plain)

	// Re-adding an installed interceptor moves it to the end of the chain.
	p.classifier.Sort(internal)
	p.install(r, internal)

	r.AddInterceptor(newListenerDetector(r, bus, p.logger))

	p.metrics.recordChainLength(r.InterceptorCount())
	p.logger.Debug("interception phase complete",
		"priority", len(priority), "ordered", len(ordered), "plain", len(plain),
		"internal", len(internal), "chain_length", r.InterceptorCount())
	return nil
}

func (p *interceptorPhase) install(r *definition.Registry, candidates []extension.Candidate) {
	for _, candidate := range candidates {
		r.AddInterceptor(candidate.Value.(definition.Interceptor))
	}
}
