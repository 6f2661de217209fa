package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-combinedform/pkg/form"
)

func TestExtractSubformArgs(t *testing.T) {
	args := map[string]any{
		"form1__foo": "bar",
		"form2__baz": 7,
		"shared":     true,
	}

	routed := form.ExtractSubformArgs(args, []string{"form1", "form2"})

	want := map[string]map[string]any{
		"form1": {"foo": "bar"},
		"form2": {"baz": 7},
	}
	if diff := cmp.Diff(want, routed); diff != "" {
		t.Errorf("routed args mismatch (-want +got):\n%s", diff)
	}

	// Extracted keys are removed from the source map.
	wantRemaining := map[string]any{"shared": true}
	if diff := cmp.Diff(wantRemaining, args); diff != "" {
		t.Errorf("remaining args mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSubformArgsIgnoresUnknownNames(t *testing.T) {
	args := map[string]any{
		"stranger__foo": "bar",
	}

	routed := form.ExtractSubformArgs(args, []string{"form1"})
	if routed != nil {
		t.Errorf("expected no routed args, got %v", routed)
	}
	if _, ok := args["stranger__foo"]; !ok {
		t.Error("unrecognised keys must stay in the source map")
	}
}

func TestExtractSubformArgsSplitsOnFirstSeparator(t *testing.T) {
	args := map[string]any{
		"form1__nested__arg": "value",
	}

	routed := form.ExtractSubformArgs(args, []string{"form1"})

	want := map[string]map[string]any{
		"form1": {"nested__arg": "value"},
	}
	if diff := cmp.Diff(want, routed); diff != "" {
		t.Errorf("routed args mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSubformArgsEmptyInputs(t *testing.T) {
	if routed := form.ExtractSubformArgs(nil, []string{"form1"}); routed != nil {
		t.Errorf("expected nil for nil args, got %v", routed)
	}
	if routed := form.ExtractSubformArgs(map[string]any{"form1__a": 1}, nil); routed != nil {
		t.Errorf("expected nil for empty names, got %v", routed)
	}
}
