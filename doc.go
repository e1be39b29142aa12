// Package wirekit provides the startup orchestration core of a
// dependency-injection container: discovery, ordering, and invocation of
// container extension hooks before any ordinary component is realized.
//
// # Architecture
//
// WireKit separates the container into a small set of collaborating
// packages:
//
//   - definition: the component registry. Named definitions with scope,
//     role, capabilities, and metadata; singleton realization with an
//     interceptor chain applied around initialization; a cached
//     merged-definition view.
//   - extension: the ordering model. Numeric ranks, the Priority/Ordered/
//     Plain tiers, and the classifier that partitions and sorts extension
//     candidates deterministically.
//   - bootstrap: the orchestrator. Three fixed phases (definition
//     mutation, factory configuration, interceptor installation) driven to
//     completion before the container is considered ready.
//   - event: the in-process notification bus listener components are
//     registered on during bootstrap.
//   - config: property sources and the placeholder configurer that resolves
//     ${key} references in definition metadata.
//   - errors, metric, pkg/cache: classified errors, Prometheus metrics, and
//     the generic cache backing the merged-definition view.
//
// # Extension model
//
// Components declare capabilities at registration instead of being probed
// at runtime. Three extension classes hook the startup sequence:
//
//   - Mutators add or structurally alter definitions; mutators registered
//     by other mutators are rediscovered and run in the same phase.
//   - Configurers adjust resolved metadata of already-registered
//     definitions after the mutation phase settles.
//   - Interceptors wrap every component's initialization for the remainder
//     of the container's life.
//
// Within each phase, Priority-tier extensions run before Ordered-tier ones,
// which run before Plain ones; numeric rank orders the first two tiers.
//
// # Usage
//
//	r := definition.NewRegistry()
//	// ... register definitions ...
//	o := bootstrap.NewOrchestrator(bootstrap.WithLogger(logger))
//	if err := o.Run(r, nil); err != nil {
//		// startup failed; discard the registry
//	}
//	svc, err := r.Realize("service")
package wirekit
