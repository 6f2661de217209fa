// Package entity describes the kinds of persisted records that participate in
// combined-form persistence: their fields and the references that tie one
// record kind to another. Descriptors are the input to the dependency-order
// resolver and to the record-backed form layer.
package entity

import "fmt"

// Type identifies a kind of persisted record. It is the stable key used for
// dependency ordering and registry lookups.
type Type string

// FieldKind enumerates the value kinds a record field can hold.
type FieldKind string

const (
	FieldString    FieldKind = "string"
	FieldInteger   FieldKind = "integer"
	FieldNumber    FieldKind = "number"
	FieldBoolean   FieldKind = "boolean"
	FieldReference FieldKind = "reference"
)

// Field describes a single attribute on a record kind.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
}

// Reference is a named directed edge between entity types: a record of the
// source type must hold the identity of a record of Target before it can be
// committed.
type Reference struct {
	Field  string
	Target Type
}

// Descriptor declares an entity type together with its fields and outgoing
// references. Field and reference order is preserved as declared.
type Descriptor struct {
	Name       Type
	Fields     []Field
	References []Reference
}

// Validate checks the descriptor for structural problems before registration.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("entity: descriptor name is required")
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, field := range d.Fields {
		if field.Name == "" {
			return fmt.Errorf("entity: descriptor %q has a field without a name", d.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("entity: descriptor %q declares field %q twice", d.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	for _, ref := range d.References {
		if ref.Field == "" {
			return fmt.Errorf("entity: descriptor %q has a reference without a field name", d.Name)
		}
		if ref.Target == "" {
			return fmt.Errorf("entity: descriptor %q reference %q has no target", d.Name, ref.Field)
		}
	}
	return nil
}

// DependenciesWithin returns the references whose target lies in the candidate
// set, in declaration order. A nil set applies no filter and returns every
// reference. References to types outside the set are dropped; they carry no
// ordering information for the caller's subgraph.
func (d Descriptor) DependenciesWithin(set Set) []Reference {
	if set == nil {
		return append([]Reference(nil), d.References...)
	}
	var out []Reference
	for _, ref := range d.References {
		if set.Has(ref.Target) {
			out = append(out, ref)
		}
	}
	return out
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	cloned := d
	if len(d.Fields) > 0 {
		cloned.Fields = append([]Field(nil), d.Fields...)
	}
	if len(d.References) > 0 {
		cloned.References = append([]Reference(nil), d.References...)
	}
	return cloned
}

// Set is an unordered collection of entity types.
type Set map[Type]struct{}

// NewSet builds a Set from the supplied types.
func NewSet(types ...Type) Set {
	set := make(Set, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// SetOf collects the names of the supplied descriptors.
func SetOf(descriptors []Descriptor) Set {
	set := make(Set, len(descriptors))
	for _, d := range descriptors {
		set[d.Name] = struct{}{}
	}
	return set
}

// Has reports membership. A nil Set contains nothing.
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}
