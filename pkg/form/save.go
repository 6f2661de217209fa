package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-combinedform/pkg/depgraph"
	"github.com/goliatone/go-combinedform/pkg/entity"
)

// SaveOptions configures an aggregate save.
type SaveOptions struct {
	// Commit controls whether the built records are persisted. When false the
	// records are linked but left uncommitted so callers can inspect them.
	Commit bool

	mainForm string
	mainSet  bool
}

// SaveOption mutates SaveOptions prior to saving.
type SaveOption func(*SaveOptions)

// WithCommit toggles persistence of the built records. Saves commit by
// default.
func WithCommit(commit bool) SaveOption {
	return func(o *SaveOptions) {
		o.Commit = commit
	}
}

// WithMain overrides the configured main form for this save. Passing an empty
// name suppresses the main form entirely so the outcome only exposes the
// per-subform results.
func WithMain(name string) SaveOption {
	return func(o *SaveOptions) {
		o.mainForm = name
		o.mainSet = true
	}
}

// SaveOutcome holds the per-subform save results and, when configured, the
// main form designation.
type SaveOutcome struct {
	results map[string]Result
	order   []string
	main    string
}

// Result returns the save result for the named subform.
func (o *SaveOutcome) Result(name string) (Result, bool) {
	result, ok := o.results[name]
	return result, ok
}

// Results returns a copy of every subform's save result keyed by name.
func (o *SaveOutcome) Results() map[string]Result {
	out := make(map[string]Result, len(o.results))
	for name, result := range o.results {
		out[name] = result
	}
	return out
}

// Main returns the main form's result when a main form is configured.
func (o *SaveOutcome) Main() (Result, bool) {
	if o.main == "" {
		return Result{}, false
	}
	result, ok := o.results[o.main]
	return result, ok
}

// Order returns the subform names in the sequence they were saved.
func (o *SaveOutcome) Order() []string {
	return append([]string(nil), o.order...)
}

// Save validates the aggregate and persists every subform. Model-backed
// subforms save in dependency order: each produced record is linked to the
// already-built record of every entity type it references before anything
// commits. Remaining subforms save afterwards in declaration order.
func (c *CombinedForm) Save(ctx context.Context, options ...SaveOption) (*SaveOutcome, error) {
	if ctx == nil {
		return nil, errors.New("form: context is required")
	}

	opts := SaveOptions{Commit: true}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	formByType := make(map[entity.Type]string)
	var descriptors []entity.Descriptor
	var plain []string

	for _, name := range c.names {
		modelForm, ok := c.forms[name].(ModelForm)
		if !ok {
			plain = append(plain, name)
			continue
		}
		descriptor := modelForm.Descriptor()
		if existing, dup := formByType[descriptor.Name]; dup {
			return nil, fmt.Errorf("form: subforms %q and %q both persist entity %q", existing, name, descriptor.Name)
		}
		formByType[descriptor.Name] = name
		descriptors = append(descriptors, descriptor)
	}

	ordered, err := depgraph.OrderByDependency(descriptors)
	if err != nil {
		return nil, err
	}

	typeSet := entity.SetOf(descriptors)
	built := make(map[entity.Type]Result, len(ordered))
	outcome := &SaveOutcome{
		results: make(map[string]Result, len(c.names)),
	}

	for _, descriptor := range ordered {
		name := formByType[descriptor.Name]
		result, err := c.forms[name].Save(ctx, false)
		if err != nil {
			return nil, &SubformError{Form: name, Op: "saving", Err: err}
		}
		built[descriptor.Name] = result

		for _, ref := range descriptor.DependenciesWithin(typeSet) {
			owner, ok := built[ref.Target].Single()
			if !ok {
				return nil, fmt.Errorf("form: subform %q cannot link %q: entity %q did not produce a single record", name, ref.Field, ref.Target)
			}
			for _, record := range result.Records() {
				if err := record.SetReference(ref.Field, owner); err != nil {
					return nil, &SubformError{Form: name, Op: "linking", Err: err}
				}
			}
		}

		outcome.results[name] = result
		outcome.order = append(outcome.order, name)
	}

	if opts.Commit {
		for _, descriptor := range ordered {
			name := formByType[descriptor.Name]
			for _, record := range built[descriptor.Name].Records() {
				if err := record.Commit(ctx); err != nil {
					return nil, &SubformError{Form: name, Op: "committing", Err: err}
				}
			}
		}
	}

	for _, name := range plain {
		result, err := c.forms[name].Save(ctx, opts.Commit)
		if err != nil {
			return nil, &SubformError{Form: name, Op: "saving", Err: err}
		}
		outcome.results[name] = result
		outcome.order = append(outcome.order, name)
	}

	outcome.main = c.mainForm
	if opts.mainSet {
		outcome.main = opts.mainForm
	}
	if outcome.main != "" {
		if _, ok := outcome.results[outcome.main]; !ok {
			return nil, fmt.Errorf("form: main form %q produced no save result", outcome.main)
		}
	}

	return outcome, nil
}
