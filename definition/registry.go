package definition

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/metric"
	"github.com/c360/wirekit/pkg/cache"
)

// Registry is the mutable store of component definitions. It supports
// capability-based discovery, add/overwrite of definitions, singleton
// realization with the interceptor chain applied around initialization, and
// a cache of merged-definition metadata.
//
// Definitions are added during the mutation phase of bootstrap and have
// their metadata adjusted during the configuration phase; no ordinary
// component is realized before both phases complete.
type Registry struct {
	mu               sync.RWMutex
	definitions      map[string]*Definition
	order            []string // insertion order, the stable discovery order
	singletons       map[string]any
	singletonOrder   []string
	metadataDefaults map[string]any

	chain       *Chain
	mergedCache cache.Cache[*Definition]
	logger      *slog.Logger
}

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	logger  *slog.Logger
	metrics *metric.Registry
}

// WithLogger sets the registry's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithMetrics exposes merged-definition cache statistics as Prometheus
// metrics on the given registry.
func WithMetrics(metrics *metric.Registry) Option {
	return func(o *registryOptions) {
		o.metrics = metrics
	}
}

// NewRegistry creates an empty component registry.
func NewRegistry(opts ...Option) *Registry {
	options := &registryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var cacheOpts []cache.Option[*Definition]
	if options.metrics != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics[*Definition](options.metrics, "merged_definitions"))
	}
	mergedCache, err := cache.NewSimple(cacheOpts...)
	if err != nil {
		// Continue without metrics rather than failing registry construction
		logger.Warn("merged-definition cache metrics unavailable", "error", err)
		mergedCache, _ = cache.NewSimple[*Definition]()
	}

	return &Registry{
		definitions:      make(map[string]*Definition),
		singletons:       make(map[string]any),
		metadataDefaults: make(map[string]any),
		chain:            &Chain{},
		mergedCache:      mergedCache,
		logger:           logger,
	}
}

// Register adds a new definition. Returns an error if a definition with the
// same name is already registered.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return errors.WrapInvalid(errors.ErrInvalidDefinition, "Registry", "Register", "definition validation")
	}
	if err := def.Validate(); err != nil {
		return errors.Wrap(err, "Registry", "Register", "definition validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		msg := fmt.Errorf("%w: %q", errors.ErrDuplicateDefinition, def.Name)
		return errors.WrapInvalid(msg, "Registry", "Register", "duplicate definition check")
	}

	r.definitions[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Overwrite adds a definition, replacing any existing one with the same
// name. The merged-definition cache entry and any realized singleton for the
// name are dropped so the replacement takes effect.
func (r *Registry) Overwrite(def *Definition) error {
	if def == nil {
		return errors.WrapInvalid(errors.ErrInvalidDefinition, "Registry", "Overwrite", "definition validation")
	}
	if err := def.Validate(); err != nil {
		return errors.Wrap(err, "Registry", "Overwrite", "definition validation")
	}

	r.mu.Lock()
	_, existed := r.definitions[def.Name]
	r.definitions[def.Name] = def
	if !existed {
		r.order = append(r.order, def.Name)
	}
	if _, realized := r.singletons[def.Name]; realized {
		delete(r.singletons, def.Name)
		for i, name := range r.singletonOrder {
			if name == def.Name {
				r.singletonOrder = append(r.singletonOrder[:i], r.singletonOrder[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if _, err := r.mergedCache.Delete(def.Name); err != nil {
		return errors.Wrap(err, "Registry", "Overwrite", "merged cache invalidation")
	}
	return nil
}

// Remove drops a definition from the registry. Removing a definition whose
// mutator has not yet run during bootstrap leaves the rediscovery outcome
// undefined relative to invocation order.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	if _, exists := r.definitions[name]; exists {
		delete(r.definitions, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	_, _ = r.mergedCache.Delete(name)
}

// Contains reports whether a definition with the name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.definitions[name]
	return exists
}

// Definition returns the live definition for a name. Mutating the returned
// definition's metadata is how configurers adjust resolved metadata; callers
// must invalidate the merged cache afterwards.
func (r *Registry) Definition(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, exists := r.definitions[name]
	if !exists {
		msg := fmt.Errorf("%w: %q", errors.ErrDefinitionNotFound, name)
		return nil, errors.WrapInvalid(msg, "Registry", "Definition", "definition lookup")
	}
	return def, nil
}

// DefinitionNames returns all definition names in stable insertion order.
func (r *Registry) DefinitionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// NamesForCapability returns the names of all definitions declaring the
// capability, in stable insertion order. No instance is realized by the
// query; it matches declared capabilities only.
func (r *Registry) NamesForCapability(c Capability) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.order {
		if r.definitions[name].HasCapability(c) {
			names = append(names, name)
		}
	}
	return names
}

// HasCapability reports whether the named definition declares the
// capability, without realizing an instance.
func (r *Registry) HasCapability(name string, c Capability) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, exists := r.definitions[name]
	return exists && def.HasCapability(c)
}

// SetMetadataDefault registers a default metadata value applied to every
// merged definition that does not set the key itself.
func (r *Registry) SetMetadataDefault(key string, value any) {
	r.mu.Lock()
	r.metadataDefaults[key] = value
	r.mu.Unlock()
}

// MergedDefinition returns a cached snapshot of the definition with
// registry-level metadata defaults applied. The snapshot is independent of
// the live definition; configurers that mutate live metadata must call
// InvalidateMergedCache for their changes to become visible here.
func (r *Registry) MergedDefinition(name string) (*Definition, error) {
	if merged, found := r.mergedCache.Get(name); found {
		return merged, nil
	}

	def, err := r.Definition(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	merged := def.Clone()
	if merged.Scope == "" {
		merged.Scope = ScopeSingleton
	}
	if merged.Metadata == nil {
		merged.Metadata = make(map[string]any)
	}
	for key, value := range r.metadataDefaults {
		if _, set := merged.Metadata[key]; !set {
			merged.Metadata[key] = value
		}
	}
	r.mu.RUnlock()

	if _, err := r.mergedCache.Set(name, merged); err != nil {
		return nil, errors.Wrap(err, "Registry", "MergedDefinition", "merged cache store")
	}
	return merged, nil
}

// InvalidateMergedCache drops all cached merged definitions. Calling it when
// the cache is already empty is a no-op.
func (r *Registry) InvalidateMergedCache() {
	if err := r.mergedCache.Clear(); err != nil {
		r.logger.Warn("merged-definition cache clear failed", "error", err)
	}
}

// AddInterceptor installs an instance interceptor at the end of the chain.
func (r *Registry) AddInterceptor(i Interceptor) {
	r.chain.Add(i)
}

// InterceptorCount returns the number of installed interceptors.
func (r *Registry) InterceptorCount() int {
	return r.chain.Count()
}

// Interceptors returns a snapshot of the installed interceptor chain.
func (r *Registry) Interceptors() []Interceptor {
	return r.chain.Interceptors()
}

// Realize returns a live instance for the named definition. Singletons are
// created once and cached; prototypes produce a fresh instance per call.
// Creation runs the merged-definition callbacks, the factory, and the
// interceptor chain around the component's initialization step.
func (r *Registry) Realize(name string) (any, error) {
	r.mu.RLock()
	if instance, exists := r.singletons[name]; exists {
		r.mu.RUnlock()
		return instance, nil
	}
	r.mu.RUnlock()

	def, err := r.Definition(name)
	if err != nil {
		return nil, err
	}

	merged, err := r.MergedDefinition(name)
	if err != nil {
		return nil, err
	}
	r.chain.applyMerged(name, merged)

	instance, err := def.Factory(r)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Realize", "factory execution")
	}
	if instance == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("factory for %q returned nil", name),
			"Registry", "Realize", "factory execution")
	}

	instance, err = r.chain.applyBeforeInit(name, instance)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Realize", "pre-initialization interception")
	}

	if initializable, ok := instance.(Initializable); ok {
		if err := initializable.Initialize(); err != nil {
			return nil, errors.Wrap(err, "Registry", "Realize", "component initialization")
		}
	}

	instance, err = r.chain.applyAfterInit(name, instance)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "Realize", "post-initialization interception")
	}

	if def.IsSingleton() {
		r.mu.Lock()
		// Another realization may have won the race; keep the first
		if existing, exists := r.singletons[name]; exists {
			r.mu.Unlock()
			return existing, nil
		}
		r.singletons[name] = instance
		r.singletonOrder = append(r.singletonOrder, name)
		r.mu.Unlock()
	}

	return instance, nil
}

// SingletonNames returns the names of realized singletons in realization
// order.
func (r *Registry) SingletonNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.singletonOrder...)
}

// DestroySingletons tears down realized singletons in reverse realization
// order: destruction interceptors run first, then the component's own
// Destroy hook. Destroy errors are logged and do not stop the teardown.
func (r *Registry) DestroySingletons() {
	r.mu.Lock()
	names := append([]string(nil), r.singletonOrder...)
	instances := make(map[string]any, len(names))
	for _, name := range names {
		instances[name] = r.singletons[name]
	}
	r.singletons = make(map[string]any)
	r.singletonOrder = nil
	r.mu.Unlock()

	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		instance := instances[name]

		r.chain.applyBeforeDestruction(name, instance)

		if disposable, ok := instance.(Disposable); ok {
			if err := disposable.Destroy(); err != nil {
				r.logger.Error("singleton destroy failed", "component", name, "error", err)
			}
		}
	}

	r.InvalidateMergedCache()
}
