package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/extension"
)

// mutatorPhase runs every definition mutator exactly once, in tier order,
// tolerating mutators that register further mutators as a side effect. The
// phase ends with the configurer callback on the cumulative mutator list and
// then on the externally supplied plain configurers.
type mutatorPhase struct {
	classifier *extension.Classifier
	logger     *slog.Logger
	metrics    *bootstrapMetrics
}

func (p *mutatorPhase) run(r *definition.Registry, external []definition.FactoryConfigurer, processed *processedSet) error {
	// Invocation order is preserved so the configurer callback replays the
	// exact sequence the mutation pass established.
	var invoked []definition.Mutator
	var externalPlain []definition.FactoryConfigurer

	// External structural mutators are bootstrap-supplied and trusted: they
	// run immediately, before anything discovered from the registry.
	for _, configurer := range external {
		mutator, ok := configurer.(definition.Mutator)
		if !ok {
			externalPlain = append(externalPlain, configurer)
			continue
		}
		if err := mutator.MutateDefinitions(r); err != nil {
			return errors.WrapFatal(err, "MutatorPhase", "Run", "external mutator invocation")
		}
		invoked = append(invoked, mutator)
		p.metrics.mutatorInvoked()
	}

	// Priority tier from the registry.
	tier, err := p.collect(r, processed, func(name string) bool {
		return r.HasCapability(name, definition.CapabilityPriority)
	})
	if err != nil {
		return err
	}
	p.classifier.Sort(tier)
	if invoked, err = p.invoke(r, tier, invoked); err != nil {
		return err
	}

	// Ordered tier, re-queried: Priority mutators may have grown the set.
	tier, err = p.collect(r, processed, func(name string) bool {
		return r.HasCapability(name, definition.CapabilityRanked)
	})
	if err != nil {
		return err
	}
	p.classifier.Sort(tier)
	if invoked, err = p.invoke(r, tier, invoked); err != nil {
		return err
	}

	// Fixpoint loop over the remainder: keep re-querying and invoking until
	// a full pass discovers no unprocessed mutator. A mutator invoked in one
	// pass may register mutators that the next pass picks up.
	for {
		pass, err := p.collect(r, processed, func(string) bool { return true })
		if err != nil {
			return err
		}
		if len(pass) == 0 {
			break
		}
		p.metrics.rediscoveryPass()
		if invoked, err = p.invoke(r, pass, invoked); err != nil {
			return err
		}
	}

	p.logger.Debug("mutation phase settled", "mutators", len(invoked))

	// Configurer callback: cumulative mutator list first, then the plain
	// external configurers, as two separate passes.
	for _, mutator := range invoked {
		if err := mutator.ConfigureFactory(r); err != nil {
			return errors.WrapFatal(err, "MutatorPhase", "Run", "mutator configure callback")
		}
	}
	for _, configurer := range externalPlain {
		if err := configurer.ConfigureFactory(r); err != nil {
			return errors.WrapFatal(err, "MutatorPhase", "Run", "external configurer invocation")
		}
	}

	return nil
}

// collect realizes every unprocessed mutator-capable definition accepted by
// the filter and marks it processed. Candidates come back in discovery
// order; the caller sorts where the tier demands it.
func (p *mutatorPhase) collect(r *definition.Registry, processed *processedSet, accept func(name string) bool) ([]extension.Candidate, error) {
	var candidates []extension.Candidate
	for _, name := range r.NamesForCapability(definition.CapabilityMutator) {
		if processed.has(name) || !accept(name) {
			continue
		}

		instance, err := r.Realize(name)
		if err != nil {
			return nil, errors.WrapFatal(err, "MutatorPhase", "Run", "mutator realization")
		}
		mutator, ok := instance.(definition.Mutator)
		if !ok {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %q declares the mutator capability but does not implement it", errors.ErrMissingCapability, name),
				"MutatorPhase", "Run", "mutator capability check")
		}

		processed.add(name)
		candidates = append(candidates, extension.Candidate{Name: name, Value: mutator})
	}
	return candidates, nil
}

func (p *mutatorPhase) invoke(r *definition.Registry, candidates []extension.Candidate, invoked []definition.Mutator) ([]definition.Mutator, error) {
	for _, candidate := range candidates {
		mutator := candidate.Value.(definition.Mutator)
		if err := mutator.MutateDefinitions(r); err != nil {
			return invoked, errors.WrapFatal(err, "MutatorPhase", "Run",
				fmt.Sprintf("mutator %q invocation", candidate.Name))
		}
		invoked = append(invoked, mutator)
		p.metrics.mutatorInvoked()
	}
	return invoked, nil
}
