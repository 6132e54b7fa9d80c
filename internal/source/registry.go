package source

import (
	"fmt"
	"strings"

	"MovieScout/internal/ports"
)

// Registry keeps a mapping from source names to their adapters. The enabled
// list in configuration is resolved against it in order, which is what makes
// merge priority configurable.
type Registry struct {
	sources map[string]ports.MovieSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.MovieSource{}}
}

// Register adds or replaces an adapter under its own name.
func (r *Registry) Register(src ports.MovieSource) {
	if r.sources == nil {
		r.sources = map[string]ports.MovieSource{}
	}
	r.sources[strings.ToLower(src.Name())] = src
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.MovieSource, error) {
	if src, ok := r.sources[strings.ToLower(strings.TrimSpace(name))]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// ResolveAll maps an ordered name list to adapters, preserving order.
func (r *Registry) ResolveAll(names []string) ([]ports.MovieSource, error) {
	resolved := make([]ports.MovieSource, 0, len(names))
	for _, name := range names {
		src, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, src)
	}
	return resolved, nil
}
