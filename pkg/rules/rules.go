// Package rules compiles combined-form validators from expression strings.
// Expressions evaluate against the aggregate's cleaned data, so a rule can
// relate fields across subforms ("order.total >= payment.amount") without
// writing a custom validator function.
package rules

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-combinedform/pkg/form"
)

// Rule pairs a boolean expression with the message reported when it fails.
// An empty Message falls back to naming the expression.
type Rule struct {
	Expression string
	Message    string
}

// Compile builds a form.Validator from the rule. The expression is compiled
// once; each validation run evaluates it against an environment where every
// subform's cleaned data is reachable under the subform name.
func Compile(rule Rule) (form.Validator, error) {
	if rule.Expression == "" {
		return nil, fmt.Errorf("rules: expression must not be empty")
	}

	program, err := exprlang.Compile(rule.Expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("rules: compile %q: %w", rule.Expression, err)
	}

	message := rule.Message
	if message == "" {
		message = fmt.Sprintf("rule failed: %s", rule.Expression)
	}

	return func(c *form.CombinedForm) error {
		result, err := runProgram(program, environment(c))
		if err != nil {
			return fmt.Errorf("rules: evaluate %q: %w", rule.Expression, err)
		}
		if !result {
			return form.NewValidationError(message)
		}
		return nil
	}, nil
}

// MustCompile panics on compilation failure. Useful for static rule tables.
func MustCompile(rule Rule) form.Validator {
	validator, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return validator
}

// CompileAll compiles every rule, failing on the first bad expression.
func CompileAll(list []Rule) ([]form.Validator, error) {
	out := make([]form.Validator, 0, len(list))
	for _, rule := range list {
		validator, err := Compile(rule)
		if err != nil {
			return nil, err
		}
		out = append(out, validator)
	}
	return out, nil
}

func runProgram(program *exprvm.Program, env map[string]any) (bool, error) {
	result, err := exprlang.Run(program, env)
	if err != nil {
		return false, err
	}
	passed, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, expected bool", result)
	}
	return passed, nil
}

func environment(c *form.CombinedForm) map[string]any {
	env := make(map[string]any)
	for name, data := range c.CleanedData() {
		env[name] = data
	}
	return env
}
