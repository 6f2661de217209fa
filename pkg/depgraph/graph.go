// Package depgraph resolves the order in which interrelated entity types can
// be persisted. It builds a directed graph from entity references and performs
// an iterative topological sort, so a record is always ordered after every
// record kind it references. Cyclic reference graphs fail with a CycleError
// instead of recursing without bound.
package depgraph

import (
	"github.com/goliatone/go-combinedform/pkg/entity"
)

// Graph accumulates entity descriptors for one resolution. It holds only
// call-local state; build a fresh Graph per resolution.
type Graph struct {
	order []entity.Type
	refs  map[entity.Type][]entity.Reference
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		refs: make(map[entity.Type][]entity.Reference),
	}
}

// AddEntity records a descriptor. Adding the same type twice collapses into a
// single vertex; the references merge. References whose target is never added
// to the graph are ignored during sorting.
func (g *Graph) AddEntity(descriptor entity.Descriptor) {
	if descriptor.Name == "" {
		return
	}
	if _, seen := g.refs[descriptor.Name]; !seen {
		g.order = append(g.order, descriptor.Name)
		g.refs[descriptor.Name] = nil
	}
	g.refs[descriptor.Name] = append(g.refs[descriptor.Name], descriptor.References...)
}

// Len reports the number of distinct entity types in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// SaveOrder returns every entity type in a dependency-respecting sequence:
// each type appears after all in-graph types it references. Within a batch of
// types whose dependencies are already satisfied, insertion order is kept.
// A cyclic reference graph returns a CycleError naming the types involved.
func (g *Graph) SaveOrder() ([]entity.Type, error) {
	levels, err := g.SaveLevels()
	if err != nil {
		return nil, err
	}
	out := make([]entity.Type, 0, len(g.order))
	for _, level := range levels {
		out = append(out, level...)
	}
	return out, nil
}

// SaveLevels groups the save order into batches: every type in a level depends
// only on types from earlier levels, so records within one level could be
// persisted independently of each other.
func (g *Graph) SaveLevels() ([][]entity.Type, error) {
	dependsOn := g.inSetDependencies()

	indegree := make(map[entity.Type]int, len(g.order))
	for _, typ := range g.order {
		indegree[typ] = len(dependsOn[typ])
	}

	dependents := make(map[entity.Type][]entity.Type, len(g.order))
	for _, typ := range g.order {
		for dep := range dependsOn[typ] {
			dependents[dep] = append(dependents[dep], typ)
		}
	}

	var levels [][]entity.Type
	resolved := 0

	current := make([]entity.Type, 0, len(g.order))
	for _, typ := range g.order {
		if indegree[typ] == 0 {
			current = append(current, typ)
		}
	}

	for len(current) > 0 {
		levels = append(levels, current)
		resolved += len(current)

		released := make(map[entity.Type]struct{})
		for _, typ := range current {
			for _, dependent := range dependents[typ] {
				indegree[dependent]--
				if indegree[dependent] == 0 {
					released[dependent] = struct{}{}
				}
			}
		}

		next := make([]entity.Type, 0, len(released))
		for _, typ := range g.order {
			if _, ok := released[typ]; ok {
				next = append(next, typ)
			}
		}
		current = next
	}

	if resolved != len(g.order) {
		var remaining []entity.Type
		for _, typ := range g.order {
			if indegree[typ] > 0 {
				remaining = append(remaining, typ)
			}
		}
		return nil, &CycleError{Types: remaining}
	}

	return levels, nil
}

// inSetDependencies restricts every vertex's references to targets that are
// themselves vertices. Self references count as dependencies and surface as a
// single-type cycle.
func (g *Graph) inSetDependencies() map[entity.Type]map[entity.Type]struct{} {
	set := entity.NewSet(g.order...)
	out := make(map[entity.Type]map[entity.Type]struct{}, len(g.order))
	for _, typ := range g.order {
		deps := make(map[entity.Type]struct{})
		for _, ref := range g.refs[typ] {
			if set.Has(ref.Target) {
				deps[ref.Target] = struct{}{}
			}
		}
		out[typ] = deps
	}
	return out
}

// OrderByDependency sorts descriptors so that every entity type appears after
// the types it references, considering only references that point within the
// supplied set. Duplicate descriptors collapse to the first occurrence.
func OrderByDependency(descriptors []entity.Descriptor) ([]entity.Descriptor, error) {
	graph := New()
	byName := make(map[entity.Type]entity.Descriptor, len(descriptors))
	for _, descriptor := range descriptors {
		graph.AddEntity(descriptor)
		if _, seen := byName[descriptor.Name]; !seen {
			byName[descriptor.Name] = descriptor
		}
	}

	order, err := graph.SaveOrder()
	if err != nil {
		return nil, err
	}

	out := make([]entity.Descriptor, 0, len(order))
	for _, typ := range order {
		out = append(out, byName[typ])
	}
	return out, nil
}
