// Package form combines several independent forms into one aggregate that
// validates, reports errors, and persists as a single unit. Subforms register
// on an ordered Builder; the resulting CombinedForm aggregates field errors,
// non-field errors, and cleaned data across all subforms and saves
// model-backed subforms in dependency order.
package form
