package form

import "fmt"

// Request carries the inputs shared by every subform when an aggregate is
// built from submitted data.
type Request struct {
	// Values holds the submitted data all subforms bind against. Collection
	// forms conventionally find their rows under their own subform name.
	Values map[string]any

	// Initial supplies per-subform initial data keyed by subform name.
	Initial map[string]map[string]any

	// Args carries constructor arguments. Keys of the form "name__arg" route
	// to the named subform only; the rest reach every subform.
	Args map[string]any
}

// SubformRequest is the per-subform view of a Request handed to a Factory.
type SubformRequest struct {
	// Name is the subform's registered name.
	Name string

	// Values is the shared submitted data.
	Values map[string]any

	// Initial is the initial data routed to this subform, if any.
	Initial map[string]any

	// Args merges this subform's routed arguments with the shared ones;
	// shared keys win on collision.
	Args map[string]any
}

// Factory constructs a subform bound to the supplied request data.
type Factory func(req SubformRequest) (Form, error)

// Validator inspects the whole aggregate after every subform has validated.
// Return a *ValidationError or *FieldValidationError to mark the aggregate
// invalid; any other error aborts validation and propagates to the caller.
type Validator func(c *CombinedForm) error

// Builder assembles a CombinedForm from an ordered set of named subform
// factories. Registration order is the aggregate's iteration and save order,
// so callers declare subforms the way they want them reported.
type Builder struct {
	names      []string
	factories  map[string]Factory
	validators []Validator
	mainForm   string
	err        error
}

// BuilderOption customises the builder configuration.
type BuilderOption func(*Builder)

// WithValidators appends combined-level validators run after subform
// validation.
func WithValidators(validators ...Validator) BuilderOption {
	return func(b *Builder) {
		for _, v := range validators {
			if v == nil {
				continue
			}
			b.validators = append(b.validators, v)
		}
	}
}

// WithMainForm names the subform whose save result the aggregate treats as
// its primary return value.
func WithMainForm(name string) BuilderOption {
	return func(b *Builder) {
		b.mainForm = name
	}
}

// NewBuilder constructs an empty Builder applying any provided options.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		factories: make(map[string]Factory),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Subform registers a named factory, preserving declaration order. Duplicate
// or empty names are recorded and surface when Build runs.
func (b *Builder) Subform(name string, factory Factory) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = fmt.Errorf("form: subform name is required")
		return b
	}
	if factory == nil {
		b.err = fmt.Errorf("form: subform %q factory is required", name)
		return b
	}
	if _, exists := b.factories[name]; exists {
		b.err = fmt.Errorf("form: subform %q already registered", name)
		return b
	}
	b.names = append(b.names, name)
	b.factories[name] = factory
	return b
}

// Keys returns the registered subform names in declaration order.
func (b *Builder) Keys() []string {
	return append([]string(nil), b.names...)
}

// Build constructs every subform against the request and returns the
// aggregate. Factory failures wrap as SubformError naming the subform.
func (b *Builder) Build(req Request) (*CombinedForm, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.mainForm != "" {
		if _, ok := b.factories[b.mainForm]; !ok {
			return nil, fmt.Errorf("form: main form %q is not a registered subform", b.mainForm)
		}
	}

	shared := make(map[string]any, len(req.Args))
	for key, value := range req.Args {
		shared[key] = value
	}
	routed := ExtractSubformArgs(shared, b.names)

	combined := &CombinedForm{
		names:      append([]string(nil), b.names...),
		forms:      make(map[string]Form, len(b.names)),
		validators: append([]Validator(nil), b.validators...),
		mainForm:   b.mainForm,
	}

	for _, name := range b.names {
		sub := SubformRequest{
			Name:   name,
			Values: req.Values,
			Args:   mergeArgs(routed[name], shared),
		}
		if req.Initial != nil {
			sub.Initial = req.Initial[name]
		}

		instance, err := b.factories[name](sub)
		if err != nil {
			return nil, &SubformError{Form: name, Op: "building", Err: err}
		}
		combined.forms[name] = instance
	}

	return combined, nil
}
