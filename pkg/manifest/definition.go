package manifest

import (
	"fmt"

	"github.com/goliatone/go-combinedform/pkg/entity"
	"github.com/goliatone/go-combinedform/pkg/form"
	"github.com/goliatone/go-combinedform/pkg/record"
	"github.com/goliatone/go-combinedform/pkg/rules"
)

// Definition declares one combined form: its ordered subforms, the optional
// main form, and the expression rules validating the aggregate.
type Definition struct {
	Name       string
	MainForm   string
	Subforms   []Subform
	Validators []Validator
}

// Subform names one member of the aggregate and the entity type backing it.
type Subform struct {
	Name       string
	Entity     string
	Prefix     string
	Collection bool
}

// Validator pairs a rule expression with its failure message.
type Validator struct {
	Expr    string
	Message string
}

// Builder wires the definition into a runnable form.Builder: every subform
// resolves its entity descriptor from the registry and binds records against
// the store, and every validator compiles to an expression rule.
func (d Definition) Builder(registry *entity.Registry, store *record.Store) (*form.Builder, error) {
	if registry == nil {
		return nil, fmt.Errorf("manifest: form %q: entity registry is required", d.Name)
	}
	if store == nil {
		return nil, fmt.Errorf("manifest: form %q: record store is required", d.Name)
	}

	ruleList := make([]rules.Rule, 0, len(d.Validators))
	for _, validator := range d.Validators {
		ruleList = append(ruleList, rules.Rule{
			Expression: validator.Expr,
			Message:    validator.Message,
		})
	}
	validators, err := rules.CompileAll(ruleList)
	if err != nil {
		return nil, fmt.Errorf("manifest: form %q: %w", d.Name, err)
	}

	options := []form.BuilderOption{form.WithValidators(validators...)}
	if d.MainForm != "" {
		options = append(options, form.WithMainForm(d.MainForm))
	}

	builder := form.NewBuilder(options...)
	for _, sub := range d.Subforms {
		descriptor, err := registry.Get(entity.Type(sub.Entity))
		if err != nil {
			return nil, fmt.Errorf("manifest: form %q subform %q: %w", d.Name, sub.Name, err)
		}

		var factory form.Factory
		if sub.Collection {
			factory = record.SetFactory(descriptor, store)
		} else {
			var formOptions []record.FormOption
			if sub.Prefix != "" {
				formOptions = append(formOptions, record.WithPrefix(sub.Prefix))
			}
			factory = record.Factory(descriptor, store, formOptions...)
		}
		builder.Subform(sub.Name, factory)
	}

	return builder, nil
}
