package entity

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores entity descriptors by type name, providing discovery and
// duplication safeguards. Callers can share one registry across combined-form
// definitions.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[Type]Descriptor
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[Type]Descriptor),
	}
}

// Register adds a descriptor by its Name. Duplicate names return an error.
func (r *Registry) Register(descriptor Descriptor) error {
	if err := descriptor.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[descriptor.Name]; exists {
		return fmt.Errorf("entity: descriptor %q already registered", descriptor.Name)
	}

	r.descriptors[descriptor.Name] = descriptor.Clone()
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(descriptor Descriptor) {
	if err := r.Register(descriptor); err != nil {
		panic(err)
	}
}

// Get retrieves a descriptor by type name.
func (r *Registry) Get(name Type) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("entity: descriptor %q not found", name)
	}
	return descriptor.Clone(), nil
}

// Has reports whether a descriptor is registered.
func (r *Registry) Has(name Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[name]
	return ok
}

// List returns the sorted names of all registered descriptors.
func (r *Registry) List() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Type, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Resolve looks up every requested type, preserving request order.
func (r *Registry) Resolve(names ...Type) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		descriptor, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, descriptor)
	}
	return out, nil
}
