package form

import (
	"context"

	"github.com/goliatone/go-combinedform/pkg/entity"
)

// Form is the capability contract every subform must satisfy. Implementations
// wrap whatever input-handling machinery produces the data; the combined layer
// only needs validity, error reporting, cleaned data, and persistence.
type Form interface {
	// Valid reports whether the bound data passes the form's own validation.
	Valid() bool

	// Errors returns field-level validation messages keyed by field name.
	// Collection-backed forms key by "index.field". An empty map means the
	// form has no field errors to contribute.
	Errors() map[string][]string

	// NonFieldErrors returns validation messages not tied to a single field.
	NonFieldErrors() []string

	// CleanedData returns the validated, coerced values keyed by field name.
	// Only meaningful once Valid has returned true.
	CleanedData() map[string]any

	// Save materialises the form's data as one or more records. When commit
	// is false the records are built but not persisted, so the caller can
	// link references before committing.
	Save(ctx context.Context, commit bool) (Result, error)
}

// ModelForm is a Form whose records belong to a declared entity type. Only
// model forms participate in dependency-ordered persistence.
type ModelForm interface {
	Form

	// Descriptor returns the entity descriptor backing this form.
	Descriptor() entity.Descriptor
}

// ErrorReporter is an optional capability allowing combined-level validators
// to push field errors down into a subform.
type ErrorReporter interface {
	AddError(field string, messages ...string)
}

// Record is the unit of persistence produced by a Form's Save. The combined
// save path links records to their dependencies and commits them once every
// referenced record holds an identity.
type Record interface {
	// RecordID returns the persisted identity, or "" before commit.
	RecordID() string

	// SetReference points the named reference field at an already-built
	// dependency record.
	SetReference(field string, dependency Record) error

	// Commit persists the record to its backing store.
	Commit(ctx context.Context) error
}
