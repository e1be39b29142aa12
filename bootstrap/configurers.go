package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/extension"
)

// configurerPhase runs every factory configurer exactly once, tiered, after
// the mutation phase has settled. Configurers already invoked during the
// mutation phase are skipped via the shared processed set.
type configurerPhase struct {
	classifier *extension.Classifier
	logger     *slog.Logger
	metrics    *bootstrapMetrics
}

func (p *configurerPhase) run(r *definition.Registry, processed *processedSet) error {
	var priority, ordered, plain []string
	for _, name := range r.NamesForCapability(definition.CapabilityConfigurer) {
		if processed.has(name) {
			continue
		}
		switch {
		case r.HasCapability(name, definition.CapabilityPriority):
			priority = append(priority, name)
		case r.HasCapability(name, definition.CapabilityRanked):
			ordered = append(ordered, name)
		default:
			plain = append(plain, name)
		}
	}

	// Strict tier sequence. Each tier is realized only once the previous
	// tier has fully run, so a Priority configurer's metadata adjustments
	// are visible before any Ordered configurer instance exists.
	if err := p.runTier(r, processed, priority, true); err != nil {
		return err
	}
	if err := p.runTier(r, processed, ordered, true); err != nil {
		return err
	}
	if err := p.runTier(r, processed, plain, false); err != nil {
		return err
	}

	// Configurers mutate resolved metadata the merged cache assumed
	// immutable.
	r.InvalidateMergedCache()

	p.logger.Debug("configuration phase complete",
		"priority", len(priority), "ordered", len(ordered), "plain", len(plain))
	return nil
}

func (p *configurerPhase) runTier(r *definition.Registry, processed *processedSet, names []string, sorted bool) error {
	candidates := make([]extension.Candidate, 0, len(names))
	for _, name := range names {
		instance, err := r.Realize(name)
		if err != nil {
			return errors.WrapFatal(err, "ConfigurerPhase", "Run", "configurer realization")
		}
		configurer, ok := instance.(definition.FactoryConfigurer)
		if !ok {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %q declares the configurer capability but does not implement it", errors.ErrMissingCapability, name),
				"ConfigurerPhase", "Run", "configurer capability check")
		}
		processed.add(name)
		candidates = append(candidates, extension.Candidate{Name: name, Value: configurer})
	}

	if sorted {
		p.classifier.Sort(candidates)
	}

	for _, candidate := range candidates {
		configurer := candidate.Value.(definition.FactoryConfigurer)
		if err := configurer.ConfigureFactory(r); err != nil {
			return errors.WrapFatal(err, "ConfigurerPhase", "Run",
				fmt.Sprintf("configurer %q invocation", candidate.Name))
		}
	}
	return nil
}
