package form

import (
	"fmt"
)

// CombinedForm exposes several independent subforms as one validation and
// persistence unit. Construct instances through Builder.Build.
type CombinedForm struct {
	names      []string
	forms      map[string]Form
	validators []Validator
	mainForm   string

	nonField  []string
	validated bool
}

// Keys returns the subform names in declaration order.
func (c *CombinedForm) Keys() []string {
	return append([]string(nil), c.names...)
}

// Get returns the subform registered under name.
func (c *CombinedForm) Get(name string) (Form, error) {
	instance, ok := c.forms[name]
	if !ok {
		return nil, fmt.Errorf("form: no subform with name %q", name)
	}
	return instance, nil
}

// Subforms returns every subform in declaration order.
func (c *CombinedForm) Subforms() []Form {
	out := make([]Form, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.forms[name])
	}
	return out
}

// SubformsValid reports whether every subform passes its own validation.
func (c *CombinedForm) SubformsValid() bool {
	for _, name := range c.names {
		if !c.forms[name].Valid() {
			return false
		}
	}
	return true
}

// Validate runs subform validation followed by the combined validators.
// Validation failures are recorded on the aggregate and reported as
// ErrInvalid; a validator failing with anything other than a validation error
// propagates as-is.
func (c *CombinedForm) Validate() error {
	if !c.SubformsValid() {
		return ErrInvalid
	}

	if c.validated {
		if len(c.nonField) > 0 {
			return ErrInvalid
		}
		return nil
	}

	for i, validator := range c.validators {
		err := validator(c)
		if err == nil {
			continue
		}
		switch failure := err.(type) {
		case *ValidationError:
			c.validated = true
			c.nonField = append(c.nonField, failure.Messages...)
			return ErrInvalid
		case *FieldValidationError:
			if routeErr := c.routeFieldError(failure); routeErr != nil {
				return routeErr
			}
			c.validated = true
			return ErrInvalid
		default:
			// Not memoized: a later call re-runs the validators instead of
			// reporting a valid aggregate that never passed them.
			return fmt.Errorf("form: validator %d: %w", i, err)
		}
	}

	c.validated = true
	return nil
}

// Valid reports whether all subforms and all combined validators pass.
func (c *CombinedForm) Valid() bool {
	return c.Validate() == nil
}

func (c *CombinedForm) routeFieldError(failure *FieldValidationError) error {
	target, ok := c.forms[failure.Form]
	if !ok {
		return fmt.Errorf("form: validator addressed unknown subform %q", failure.Form)
	}
	reporter, ok := target.(ErrorReporter)
	if !ok {
		for field, messages := range failure.Fields {
			for _, message := range messages {
				c.nonField = append(c.nonField, fmt.Sprintf("%s.%s: %s", failure.Form, field, message))
			}
		}
		return nil
	}
	for field, messages := range failure.Fields {
		reporter.AddError(field, messages...)
	}
	return nil
}

// Errors aggregates field errors from every subform, keyed by subform name.
// Subforms without errors contribute nothing, so a fully valid aggregate
// returns an empty map.
func (c *CombinedForm) Errors() map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, name := range c.names {
		formErrors := c.forms[name].Errors()
		if len(formErrors) == 0 {
			continue
		}
		out[name] = formErrors
	}
	return out
}

// NonFieldErrors returns the combined-level validator messages followed by
// every subform's non-field errors in declaration order.
func (c *CombinedForm) NonFieldErrors() []string {
	out := append([]string(nil), c.nonField...)
	for _, name := range c.names {
		out = append(out, c.forms[name].NonFieldErrors()...)
	}
	return out
}

// CleanedData aggregates every subform's cleaned data keyed by subform name.
// Only meaningful once Valid has returned true.
func (c *CombinedForm) CleanedData() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.names))
	for _, name := range c.names {
		out[name] = c.forms[name].CleanedData()
	}
	return out
}
