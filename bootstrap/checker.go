package bootstrap

import (
	"log/slog"

	"github.com/c360/wirekit/definition"
)

// chainChecker is the diagnostic sentinel installed at the head of the
// interceptor phase. While the chain is still shorter than the target count
// computed at phase start, any ordinary component that gets realized (for
// example as a side effect of an interceptor's own construction) is noted as
// potentially missing interception. The note is informational and never
// alters control flow.
type chainChecker struct {
	registry *definition.Registry
	target   int
	logger   *slog.Logger
}

func newChainChecker(registry *definition.Registry, target int, logger *slog.Logger) *chainChecker {
	return &chainChecker{registry: registry, target: target, logger: logger}
}

// BeforeInit passes the instance through untouched.
func (c *chainChecker) BeforeInit(_ string, instance any) (any, error) {
	return instance, nil
}

// AfterInit emits the missed-interception note for ordinary components
// realized while the chain is below its target length.
func (c *chainChecker) AfterInit(name string, instance any) (any, error) {
	if _, isInterceptor := instance.(definition.Interceptor); isInterceptor {
		return instance, nil
	}
	if c.isInfrastructure(name) {
		return instance, nil
	}
	if c.registry.InterceptorCount() < c.target {
		c.logger.Info("component is not eligible for processing by all interceptors",
			"component", name,
			"installed", c.registry.InterceptorCount(),
			"expected", c.target)
	}
	return instance, nil
}

func (c *chainChecker) isInfrastructure(name string) bool {
	def, err := c.registry.Definition(name)
	return err == nil && def.Role == definition.RoleInfrastructure
}
