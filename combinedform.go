// Package combinedform composes several independent forms into one aggregate
// that validates, reports errors, and persists as a single unit. Model-backed
// subforms save in dependency order: a record is always committed after every
// record kind it references.
package combinedform

import (
	"github.com/goliatone/go-combinedform/pkg/depgraph"
	"github.com/goliatone/go-combinedform/pkg/entity"
	"github.com/goliatone/go-combinedform/pkg/form"
)

// Form is the capability contract every subform satisfies.
type Form = form.Form

// ModelForm is a Form whose records belong to a declared entity type.
type ModelForm = form.ModelForm

// Result is the tagged save-result variant: single record or collection.
type Result = form.Result

// Builder assembles a CombinedForm from ordered named subform factories.
type Builder = form.Builder

// CombinedForm is the aggregate built from registered subforms.
type CombinedForm = form.CombinedForm

// Request carries the inputs shared by every subform during construction.
type Request = form.Request

// Factory constructs a subform bound to its view of the request.
type Factory = form.Factory

// Validator inspects the whole aggregate after subform validation.
type Validator = form.Validator

// ValidationError carries combined-level validation messages.
type ValidationError = form.ValidationError

// FieldValidationError routes combined-level messages to a subform's fields.
type FieldValidationError = form.FieldValidationError

// SubformError wraps a failure raised while handling a named subform.
type SubformError = form.SubformError

// EntityType identifies a kind of persisted record.
type EntityType = entity.Type

// EntityDescriptor declares an entity type, its fields, and its references.
type EntityDescriptor = entity.Descriptor

// Reference is a named directed edge between entity types.
type Reference = entity.Reference

// NewBuilder constructs an empty Builder applying any provided options.
func NewBuilder(options ...form.BuilderOption) *Builder {
	return form.NewBuilder(options...)
}

// WithValidators appends combined-level validators.
var WithValidators = form.WithValidators

// WithMainForm names the subform whose save result is the aggregate's
// primary return value.
var WithMainForm = form.WithMainForm

// OrderByDependency sorts entity descriptors so every type appears after the
// types it references, considering only references within the supplied set.
func OrderByDependency(descriptors []entity.Descriptor) ([]entity.Descriptor, error) {
	return depgraph.OrderByDependency(descriptors)
}
