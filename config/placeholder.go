package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
)

// Placeholder syntax: ${key} or ${key:default}.
const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"
	defaultSeparator  = ":"
)

// Resolver resolves ${key} placeholders against an ordered list of property
// sources; the first source that knows a key wins.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver over the given sources, consulted in order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// AddSource appends a source with lowest precedence.
func (r *Resolver) AddSource(s Source) {
	if s != nil {
		r.sources = append(r.sources, s)
	}
}

// Lookup finds a key across all sources in precedence order.
func (r *Resolver) Lookup(key string) (string, bool) {
	for _, s := range r.sources {
		if value, found := s.Lookup(key); found {
			return value, true
		}
	}
	return "", false
}

// Resolve replaces every placeholder in value. Unresolvable placeholders
// without a default produce an error.
func (r *Resolver) Resolve(value string) (string, error) {
	var out strings.Builder
	rest := value
	for {
		start := strings.Index(rest, placeholderPrefix)
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		end := strings.Index(rest[start:], placeholderSuffix)
		if end < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		end += start

		out.WriteString(rest[:start])
		expr := rest[start+len(placeholderPrefix) : end]
		rest = rest[end+len(placeholderSuffix):]

		key, fallback, hasFallback := strings.Cut(expr, defaultSeparator)
		resolved, found := r.Lookup(key)
		switch {
		case found:
			out.WriteString(resolved)
		case hasFallback:
			out.WriteString(fallback)
		default:
			return "", errors.WrapInvalid(
				fmt.Errorf("%w: %q", errors.ErrPlaceholderUnresolved, key),
				"Resolver", "Resolve", "placeholder lookup")
		}
	}
}

// PlaceholderConfigurer is a built-in factory configurer that resolves
// ${key} placeholders in every definition's metadata. It is Ranked so
// applications can position it relative to their own configurers; by
// default it runs early in the Ordered tier.
type PlaceholderConfigurer struct {
	resolver         *Resolver
	rank             int
	ignoreUnresolved bool
	logger           *slog.Logger
}

// PlaceholderOption configures a PlaceholderConfigurer.
type PlaceholderOption func(*PlaceholderConfigurer)

// WithRank overrides the configurer's rank.
func WithRank(rank int) PlaceholderOption {
	return func(p *PlaceholderConfigurer) {
		p.rank = rank
	}
}

// WithIgnoreUnresolved leaves unresolvable placeholders in place instead of
// failing the configuration phase.
func WithIgnoreUnresolved() PlaceholderOption {
	return func(p *PlaceholderConfigurer) {
		p.ignoreUnresolved = true
	}
}

// WithLogger sets the configurer's logger.
func WithLogger(logger *slog.Logger) PlaceholderOption {
	return func(p *PlaceholderConfigurer) {
		p.logger = logger
	}
}

// NewPlaceholderConfigurer creates a configurer resolving against the given
// resolver.
func NewPlaceholderConfigurer(resolver *Resolver, opts ...PlaceholderOption) *PlaceholderConfigurer {
	p := &PlaceholderConfigurer{
		resolver: resolver,
		rank:     0,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rank implements extension.Ranked.
func (p *PlaceholderConfigurer) Rank() int { return p.rank }

// ConfigureFactory walks every definition's metadata and resolves
// placeholders in string values, including strings nested in maps and
// slices. Metadata is mutated in place; the bootstrap invalidates the
// merged-definition cache after the configuration phase.
func (p *PlaceholderConfigurer) ConfigureFactory(r *definition.Registry) error {
	for _, name := range r.DefinitionNames() {
		def, err := r.Definition(name)
		if err != nil {
			return errors.Wrap(err, "PlaceholderConfigurer", "ConfigureFactory", "definition lookup")
		}
		if def.Metadata == nil {
			continue
		}
		resolved, err := p.resolveValue(def.Metadata)
		if err != nil {
			return errors.Wrap(err, "PlaceholderConfigurer", "ConfigureFactory",
				fmt.Sprintf("metadata resolution for %q", name))
		}
		def.Metadata = resolved.(map[string]any)
		p.logger.Debug("resolved definition metadata", "component", name)
	}
	return nil
}

// resolveValue resolves placeholders in a metadata value, recursing through
// maps and slices.
func (p *PlaceholderConfigurer) resolveValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		resolved, err := p.resolver.Resolve(v)
		if err != nil {
			if p.ignoreUnresolved {
				p.logger.Warn("placeholder left unresolved", "value", v)
				return v, nil
			}
			return nil, err
		}
		return resolved, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, nested := range v {
			resolved, err := p.resolveValue(nested)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, nested := range v {
			resolved, err := p.resolveValue(nested)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}
