package search

import (
	"sync"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// ConstructionFactory builds a construction-phase NeighbourSelection from a
// Model, the Variables it ranges over, and the resolved DataProperties.
// Config files name a constructor key rather than a fully qualified type,
// so callers register factories under a short string name instead of
// reaching for reflection-based class instantiation.
type ConstructionFactory func(model ifs.Model, variables []ifs.Variable, props *ifs.DataProperties) (ifs.NeighbourSelection, error)

// Registry maps construction-class names to factories, a lookup table in
// place of dynamic class loading from a string class name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ConstructionFactory
}

// NewRegistry returns a Registry seeded with the built-in construction
// classes ("ifs", the default StandardSelection-backed construction).
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]ConstructionFactory)}
	r.Register("ifs", func(model ifs.Model, variables []ifs.Variable, props *ifs.DataProperties) (ifs.NeighbourSelection, error) {
		return NewStandardSelection(model, variables, nil, nil), nil
	})
	return r
}

// Register adds or replaces the factory for name. Safe for concurrent use.
func (r *Registry) Register(name string, factory ConstructionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Build looks up name and invokes its factory. It returns
// ErrUnknownConstructionClass (carrying name) if no factory is
// registered under that name.
func (r *Registry) Build(name string, model ifs.Model, variables []ifs.Variable, props *ifs.DataProperties) (ifs.NeighbourSelection, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ifs.ErrUnknownConstructionClass(name)
	}
	return factory(model, variables, props)
}
