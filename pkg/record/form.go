package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-combinedform/pkg/entity"
	"github.com/goliatone/go-combinedform/pkg/form"
)

// RecordForm is a model-backed form bound to a single row of an entity type.
// Submitted values are matched by field name, optionally namespaced with a
// "prefix-" convention so several forms can share one flat value map.
type RecordForm struct {
	desc    entity.Descriptor
	store   *Store
	prefix  string
	values  map[string]any
	initial map[string]any

	cleaned     map[string]any
	fieldErrors map[string][]string
	validated   bool
}

var (
	_ form.ModelForm     = (*RecordForm)(nil)
	_ form.ErrorReporter = (*RecordForm)(nil)
)

// FormOption customises a RecordForm produced by Factory.
type FormOption func(*RecordForm)

// WithPrefix namespaces the form's value lookups as "prefix-field".
func WithPrefix(prefix string) FormOption {
	return func(f *RecordForm) {
		f.prefix = prefix
	}
}

// Factory returns a form.Factory producing RecordForms for the descriptor.
// A routed "prefix" argument overrides any option-configured prefix.
func Factory(descriptor entity.Descriptor, store *Store, options ...FormOption) form.Factory {
	return func(req form.SubformRequest) (form.Form, error) {
		f := &RecordForm{
			desc:    descriptor,
			store:   store,
			values:  req.Values,
			initial: req.Initial,
		}
		for _, opt := range options {
			if opt != nil {
				opt(f)
			}
		}
		if prefix, ok := req.Args["prefix"].(string); ok {
			f.prefix = prefix
		}
		return f, nil
	}
}

// Descriptor returns the entity descriptor backing this form.
func (f *RecordForm) Descriptor() entity.Descriptor {
	return f.desc
}

// Initial returns the initial data routed to this form.
func (f *RecordForm) Initial() map[string]any {
	return f.initial
}

func (f *RecordForm) lookup(field string) (any, bool) {
	key := field
	if f.prefix != "" {
		key = f.prefix + "-" + field
	}
	value, ok := f.values[key]
	return value, ok
}

func (f *RecordForm) validate() {
	if f.validated {
		return
	}
	f.validated = true
	if f.cleaned == nil {
		f.cleaned = make(map[string]any)
	}
	if f.fieldErrors == nil {
		f.fieldErrors = make(map[string][]string)
	}
	bindFields(f.desc, f.lookup, f.cleaned, f.fieldErrors)
}

// Valid reports whether the bound values satisfy the descriptor's fields.
func (f *RecordForm) Valid() bool {
	f.validate()
	return len(f.fieldErrors) == 0
}

// Errors returns field-level validation messages keyed by field name.
func (f *RecordForm) Errors() map[string][]string {
	f.validate()
	out := make(map[string][]string, len(f.fieldErrors))
	for field, messages := range f.fieldErrors {
		out[field] = append([]string(nil), messages...)
	}
	return out
}

// NonFieldErrors is always empty for record forms; their failures are tied to
// fields.
func (f *RecordForm) NonFieldErrors() []string {
	return nil
}

// CleanedData returns the coerced values once validation has run.
func (f *RecordForm) CleanedData() map[string]any {
	f.validate()
	out := make(map[string]any, len(f.cleaned))
	for field, value := range f.cleaned {
		out[field] = value
	}
	return out
}

// AddError records externally raised messages against a field, marking the
// form invalid.
func (f *RecordForm) AddError(field string, messages ...string) {
	f.validate()
	f.fieldErrors[field] = append(f.fieldErrors[field], messages...)
}

// Save builds a record from the cleaned values. When commit is true the
// record is written to the store immediately.
func (f *RecordForm) Save(ctx context.Context, commit bool) (form.Result, error) {
	if !f.Valid() {
		return form.Result{}, fmt.Errorf("record: form for entity %q is not valid", f.desc.Name)
	}
	rec := NewRecord(f.desc.Name, f.store, f.CleanedData())
	if commit {
		if err := rec.Commit(ctx); err != nil {
			return form.Result{}, err
		}
	}
	return form.Single(rec), nil
}

// RecordSetForm binds a sequence of rows for one entity type, the collection
// counterpart to RecordForm. Rows are taken from the shared values under the
// subform's own name, as either []map[string]any or []any of maps.
type RecordSetForm struct {
	desc  entity.Descriptor
	store *Store
	rows  []map[string]any

	cleanedRows []map[string]any
	rowErrors   []map[string][]string
	invalidRows bool
	validated   bool
}

var (
	_ form.ModelForm     = (*RecordSetForm)(nil)
	_ form.ErrorReporter = (*RecordSetForm)(nil)
)

// SetFactory returns a form.Factory producing RecordSetForms for the
// descriptor.
func SetFactory(descriptor entity.Descriptor, store *Store) form.Factory {
	return func(req form.SubformRequest) (form.Form, error) {
		rows, err := collectRows(req.Values[req.Name])
		if err != nil {
			return nil, fmt.Errorf("record: subform %q: %w", req.Name, err)
		}
		return &RecordSetForm{
			desc:  descriptor,
			store: store,
			rows:  rows,
		}, nil
	}
}

func collectRows(raw any) ([]map[string]any, error) {
	switch rows := raw.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return rows, nil
	case []any:
		out := make([]map[string]any, 0, len(rows))
		for i, element := range rows {
			row, ok := element.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("row %d is %T, expected a map", i, element)
			}
			out = append(out, row)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("rows are %T, expected a sequence of maps", raw)
	}
}

// Descriptor returns the entity descriptor backing this form.
func (f *RecordSetForm) Descriptor() entity.Descriptor {
	return f.desc
}

// Len returns the number of bound rows.
func (f *RecordSetForm) Len() int {
	return len(f.rows)
}

func (f *RecordSetForm) validate() {
	if f.validated {
		return
	}
	f.validated = true
	f.cleanedRows = make([]map[string]any, len(f.rows))
	f.rowErrors = make([]map[string][]string, len(f.rows))
	for i, row := range f.rows {
		cleaned := make(map[string]any)
		rowErrs := make(map[string][]string)
		lookup := func(field string) (any, bool) {
			value, ok := row[field]
			return value, ok
		}
		bindFields(f.desc, lookup, cleaned, rowErrs)
		f.cleanedRows[i] = cleaned
		f.rowErrors[i] = rowErrs
		if len(rowErrs) > 0 {
			f.invalidRows = true
		}
	}
}

// Valid reports whether every bound row passes validation.
func (f *RecordSetForm) Valid() bool {
	f.validate()
	return !f.invalidRows
}

// Errors flattens row errors into "index.field" keys. A collection whose rows
// all validated cleanly returns an empty map, so it contributes nothing to
// the aggregate's error report.
func (f *RecordSetForm) Errors() map[string][]string {
	f.validate()
	out := make(map[string][]string)
	for i, rowErrs := range f.rowErrors {
		for field, messages := range rowErrs {
			key := strconv.Itoa(i) + "." + field
			out[key] = append([]string(nil), messages...)
		}
	}
	return out
}

// NonFieldErrors is always empty for record set forms.
func (f *RecordSetForm) NonFieldErrors() []string {
	return nil
}

// CleanedData returns the coerced rows under the "rows" key.
func (f *RecordSetForm) CleanedData() map[string]any {
	f.validate()
	rows := make([]map[string]any, len(f.cleanedRows))
	copy(rows, f.cleanedRows)
	return map[string]any{"rows": rows}
}

// AddError records messages against an "index.field" key; a bare field name
// lands on the first row.
func (f *RecordSetForm) AddError(field string, messages ...string) {
	f.validate()
	index := 0
	name := field
	if dot := strings.IndexByte(field, '.'); dot > 0 {
		if parsed, err := strconv.Atoi(field[:dot]); err == nil && parsed >= 0 && parsed < len(f.rowErrors) {
			index = parsed
			name = field[dot+1:]
		}
	}
	if len(f.rowErrors) == 0 {
		f.rowErrors = append(f.rowErrors, make(map[string][]string))
		f.cleanedRows = append(f.cleanedRows, make(map[string]any))
	}
	f.rowErrors[index][name] = append(f.rowErrors[index][name], messages...)
	f.invalidRows = true
}

// Save builds one record per bound row. When commit is true every record is
// written to the store in row order.
func (f *RecordSetForm) Save(ctx context.Context, commit bool) (form.Result, error) {
	if !f.Valid() {
		return form.Result{}, fmt.Errorf("record: form set for entity %q is not valid", f.desc.Name)
	}
	records := make([]form.Record, 0, len(f.cleanedRows))
	for _, row := range f.cleanedRows {
		data := make(map[string]any, len(row))
		for field, value := range row {
			data[field] = value
		}
		rec := NewRecord(f.desc.Name, f.store, data)
		if commit {
			if err := rec.Commit(ctx); err != nil {
				return form.Result{}, err
			}
		}
		records = append(records, rec)
	}
	return form.Collection(records...), nil
}

// bindFields validates each descriptor field against the lookup, filling
// cleaned values and error messages. Reference fields are skipped; they are
// assigned during the aggregate save, not bound from submitted data.
func bindFields(desc entity.Descriptor, lookup func(string) (any, bool), cleaned map[string]any, errs map[string][]string) {
	refFields := make(map[string]struct{}, len(desc.References))
	for _, ref := range desc.References {
		refFields[ref.Field] = struct{}{}
	}

	for _, field := range desc.Fields {
		if _, isRef := refFields[field.Name]; isRef || field.Kind == entity.FieldReference {
			continue
		}

		raw, ok := lookup(field.Name)
		if !ok || raw == nil || raw == "" {
			if field.Required {
				errs[field.Name] = append(errs[field.Name], "this field is required")
			}
			continue
		}

		value, err := coerce(field.Kind, raw)
		if err != nil {
			errs[field.Name] = append(errs[field.Name], err.Error())
			continue
		}
		cleaned[field.Name] = value
	}
}

func coerce(kind entity.FieldKind, raw any) (any, error) {
	switch kind {
	case entity.FieldString, "":
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("must be a string")
	case entity.FieldInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		case string:
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("must be an integer")
	case entity.FieldNumber:
		switch v := raw.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float64:
			return v, nil
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("must be a number")
	case entity.FieldBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("must be a boolean")
	default:
		return nil, fmt.Errorf("unsupported field kind %q", kind)
	}
}
