// Package record supplies the in-memory persistence layer backing model
// forms: ULID-identified records grouped per entity type, plus Form
// implementations that bind submitted values against an entity descriptor.
package record

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-combinedform/pkg/entity"
	"github.com/goliatone/go-combinedform/pkg/form"
)

// Record is one row of an entity type. Data holds the validated field values;
// reference fields are filled in during an aggregate save once the dependency
// record exists.
type Record struct {
	id        string
	entity    entity.Type
	version   int64
	createdAt time.Time
	updatedAt time.Time

	Data map[string]any

	refs  map[string]*Record
	store *Store
}

var _ form.Record = (*Record)(nil)

// NewRecord builds an uncommitted record bound to the given store.
func NewRecord(typ entity.Type, store *Store, data map[string]any) *Record {
	if data == nil {
		data = make(map[string]any)
	}
	return &Record{
		entity: typ,
		Data:   data,
		store:  store,
	}
}

// RecordID returns the persisted identity, or "" before the first commit.
func (r *Record) RecordID() string {
	return r.id
}

// Entity returns the record's entity type.
func (r *Record) Entity() entity.Type {
	return r.entity
}

// Version returns the number of times the record has been committed.
func (r *Record) Version() int64 {
	return r.version
}

// SetReference points the named reference field at a dependency record. The
// dependency's identity is mirrored into Data when this record commits.
func (r *Record) SetReference(field string, dependency form.Record) error {
	if field == "" {
		return fmt.Errorf("record: reference field name is required")
	}
	target, ok := dependency.(*Record)
	if !ok {
		return fmt.Errorf("record: reference %q on %q: unsupported record type %T", field, r.entity, dependency)
	}
	if r.refs == nil {
		r.refs = make(map[string]*Record)
	}
	r.refs[field] = target
	return nil
}

// Reference returns the dependency record linked under field, if any.
func (r *Record) Reference(field string) (*Record, bool) {
	dep, ok := r.refs[field]
	return dep, ok
}

// Commit persists the record. Every linked dependency must already carry an
// identity; its ID is copied into the matching Data field before the write.
func (r *Record) Commit(ctx context.Context) error {
	if r.store == nil {
		return fmt.Errorf("record: %q has no backing store", r.entity)
	}
	for field, dep := range r.refs {
		if dep.RecordID() == "" {
			return fmt.Errorf("record: reference %q on %q points at an uncommitted %q record", field, r.entity, dep.Entity())
		}
		r.Data[field] = dep.RecordID()
	}
	return r.store.Save(ctx, r)
}
