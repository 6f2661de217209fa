package form

import "strings"

// subformArgSeparator splits a routed argument key into subform name and
// argument name, mirroring the "name__arg" convention used when constructing
// an aggregate.
const subformArgSeparator = "__"

// ExtractSubformArgs sorts constructor arguments into per-subform maps. Only
// keys matching the "subform__arg" pattern are considered, and of those, only
// the ones whose subform portion appears in names. Extracted keys are removed
// from args as a side effect; everything left over is shared by all subforms.
func ExtractSubformArgs(args map[string]any, names []string) map[string]map[string]any {
	if len(args) == 0 || len(names) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}

	routed := make(map[string]map[string]any)
	for key, value := range args {
		if !strings.Contains(key, subformArgSeparator) {
			continue
		}
		parts := strings.SplitN(key, subformArgSeparator, 2)
		formName, argName := parts[0], parts[1]
		if _, ok := known[formName]; !ok {
			continue
		}
		if routed[formName] == nil {
			routed[formName] = make(map[string]any)
		}
		routed[formName][argName] = value
		delete(args, key)
	}

	if len(routed) == 0 {
		return nil
	}
	return routed
}

// mergeArgs layers shared arguments over the routed ones. Shared keys win on
// collision, matching the original aggregate's construction behavior.
func mergeArgs(routed, shared map[string]any) map[string]any {
	if len(routed) == 0 && len(shared) == 0 {
		return nil
	}
	merged := make(map[string]any, len(routed)+len(shared))
	for key, value := range routed {
		merged[key] = value
	}
	for key, value := range shared {
		merged[key] = value
	}
	return merged
}
