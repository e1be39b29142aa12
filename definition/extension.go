package definition

// FactoryConfigurer adjusts resolved metadata of definitions already present
// in the registry. Configurers run after the mutation phase has settled and
// must not add new definitions.
type FactoryConfigurer interface {
	ConfigureFactory(r *Registry) error
}

// Mutator is an extension that can add or structurally alter definitions.
// Every mutator is also a FactoryConfigurer; its ConfigureFactory callback
// runs once the mutation phase reaches its fixpoint. Mutators may register
// further mutators, which the bootstrap rediscovers and runs in the same
// phase.
type Mutator interface {
	FactoryConfigurer
	MutateDefinitions(r *Registry) error
}

// Interceptor is invoked around every component's initialization. Both hooks
// return the instance to continue with, allowing an interceptor to replace
// it (e.g. with a wrapping proxy).
type Interceptor interface {
	BeforeInit(name string, instance any) (any, error)
	AfterInit(name string, instance any) (any, error)
}

// MergedInterceptor is the secondary interceptor capability: it observes the
// merged definition of a component before its instance is created. The
// bootstrap re-installs merged interceptors at the tail of the chain so they
// always see component lifecycles after all ordinary interceptors.
type MergedInterceptor interface {
	Interceptor
	InterceptMergedDefinition(name string, def *Definition)
}

// DestructionInterceptor is invoked before a singleton is destroyed.
type DestructionInterceptor interface {
	Interceptor
	BeforeDestruction(name string, instance any)
}

// Initializable components run an initialization step between the
// interceptor chain's BeforeInit and AfterInit hooks.
type Initializable interface {
	Initialize() error
}

// Disposable components release resources when the registry destroys its
// singletons.
type Disposable interface {
	Destroy() error
}
