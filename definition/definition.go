// Package definition implements the container's component registry: named
// component definitions, capability-based discovery, singleton realization
// with the interceptor chain applied around initialization, and cached
// merged-definition metadata.
package definition

import (
	"maps"

	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/event"
	"github.com/c360/wirekit/extension"
)

// Scope controls how many instances a definition produces.
type Scope string

const (
	// ScopeSingleton definitions are realized once and cached
	ScopeSingleton Scope = "singleton"
	// ScopePrototype definitions produce a fresh instance per realization
	ScopePrototype Scope = "prototype"
)

// Role distinguishes ordinary components from container infrastructure.
// Infrastructure components are excluded from certain diagnostic checks.
type Role int

const (
	// RoleOrdinary marks a regular application component
	RoleOrdinary Role = iota
	// RoleInfrastructure marks internal container machinery
	RoleInfrastructure
)

// Capability names a contract a component declares it satisfies.
// Declaring capabilities at registration replaces ad hoc runtime type
// probing: discovery queries match declared capabilities, never live
// instances.
type Capability string

const (
	// CapabilityMutator marks definition mutators (structural extensions)
	CapabilityMutator Capability = "definition-mutator"
	// CapabilityConfigurer marks factory configurers
	CapabilityConfigurer Capability = "factory-configurer"
	// CapabilityInterceptor marks instance interceptors
	CapabilityInterceptor Capability = "instance-interceptor"
	// CapabilityListener marks event listeners
	CapabilityListener Capability = "event-listener"
	// CapabilityPriority marks Priority-tier extensions
	CapabilityPriority Capability = "priority-ranked"
	// CapabilityRanked marks Ordered-tier extensions
	CapabilityRanked Capability = "ranked"
)

// Factory creates a component instance. Factories must not perform I/O;
// they only construct the instance from the registry's collaborators.
type Factory func(r *Registry) (any, error)

// Definition describes a component the container can instantiate.
// Definitions are owned by the Registry and mutated only during the
// mutation and configuration phases of bootstrap.
type Definition struct {
	// Name is the unique registry key
	Name string

	// Scope is singleton or prototype; empty defaults to singleton
	Scope Scope

	// Role flags infrastructure components
	Role Role

	// Capabilities the component declares it satisfies
	Capabilities []Capability

	// Metadata is the resolved-metadata blob adjusted by configurers
	Metadata map[string]any

	// Factory builds the instance
	Factory Factory
}

// IsSingleton reports whether the definition is singleton scoped.
func (d *Definition) IsSingleton() bool {
	return d.Scope == "" || d.Scope == ScopeSingleton
}

// HasCapability reports whether the definition declares the capability.
func (d *Definition) HasCapability(c Capability) bool {
	for _, declared := range d.Capabilities {
		if declared == c {
			return true
		}
	}
	return false
}

// Clone returns a copy of the definition with its own metadata map.
// The factory and capability slice contents are shared.
func (d *Definition) Clone() *Definition {
	copied := *d
	copied.Capabilities = append([]Capability(nil), d.Capabilities...)
	if d.Metadata != nil {
		copied.Metadata = make(map[string]any, len(d.Metadata))
		maps.Copy(copied.Metadata, d.Metadata)
	}
	return &copied
}

// CapabilitiesOf derives the capability set a sample instance satisfies from
// its interface memberships. Registration helpers use it so components
// declare capabilities once, at construction.
func CapabilitiesOf(v any) []Capability {
	var caps []Capability
	if _, ok := v.(Mutator); ok {
		caps = append(caps, CapabilityMutator)
	}
	if _, ok := v.(FactoryConfigurer); ok {
		caps = append(caps, CapabilityConfigurer)
	}
	if _, ok := v.(Interceptor); ok {
		caps = append(caps, CapabilityInterceptor)
	}
	if _, ok := v.(event.Listener); ok {
		caps = append(caps, CapabilityListener)
	}
	switch extension.TierOf(v) {
	case extension.TierPriority:
		caps = append(caps, CapabilityPriority)
	case extension.TierOrdered:
		caps = append(caps, CapabilityRanked)
	}
	return caps
}

// Validate checks the definition for structural problems.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.WrapInvalid(errors.ErrInvalidDefinition, "Definition", "Validate", "name validation")
	}
	if d.Factory == nil {
		return errors.WrapInvalid(errors.ErrNoFactory, "Definition", "Validate", "factory validation")
	}
	if d.Scope != "" && d.Scope != ScopeSingleton && d.Scope != ScopePrototype {
		return errors.WrapInvalid(errors.ErrInvalidDefinition, "Definition", "Validate", "scope validation")
	}
	return nil
}
