package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned by Validate when the aggregate fails validation. The
// specifics live in Errors and NonFieldErrors on the combined form.
var ErrInvalid = errors.New("form: combined form is not valid")

// ValidationError carries combined-level validation messages. Validators
// return it to mark the aggregate invalid; the messages accumulate into the
// combined form's non-field errors.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form: validation failed: %s", strings.Join(e.Messages, "; "))
}

// FieldValidationError assigns combined-level validation messages to fields of
// a named subform. When the subform implements ErrorReporter the messages land
// on its own field errors; otherwise they surface as combined non-field
// errors prefixed with the field path.
type FieldValidationError struct {
	Form   string
	Fields map[string][]string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("form: validation failed for subform %q", e.Form)
}

// SubformError wraps a failure raised while constructing, validating, or
// saving a named subform.
type SubformError struct {
	Form string
	Op   string
	Err  error
}

func (e *SubformError) Error() string {
	return fmt.Sprintf("form: %s subform %q: %v", e.Op, e.Form, e.Err)
}

func (e *SubformError) Unwrap() error {
	return e.Err
}
