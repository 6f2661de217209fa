package manifest_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-combinedform/pkg/entity"
	"github.com/goliatone/go-combinedform/pkg/form"
	"github.com/goliatone/go-combinedform/pkg/manifest"
	"github.com/goliatone/go-combinedform/pkg/record"
)

const checkoutManifest = `
forms:
  checkout:
    main_form: order
    subforms:
      - name: customer
        entity: Customer
        prefix: customer
      - name: order
        entity: Order
        prefix: order
      - name: lines
        entity: OrderLine
        collection: true
    validators:
      - expr: "order.total > 0"
        message: "order total must be positive"
`

func checkoutRegistry(t *testing.T) *entity.Registry {
	t.Helper()

	registry := entity.NewRegistry()
	registry.MustRegister(entity.Descriptor{
		Name:   "Customer",
		Fields: []entity.Field{{Name: "email", Kind: entity.FieldString, Required: true}},
	})
	registry.MustRegister(entity.Descriptor{
		Name:       "Order",
		Fields:     []entity.Field{{Name: "total", Kind: entity.FieldNumber, Required: true}},
		References: []entity.Reference{{Field: "customer", Target: "Customer"}},
	})
	registry.MustRegister(entity.Descriptor{
		Name:       "OrderLine",
		Fields:     []entity.Field{{Name: "sku", Kind: entity.FieldString, Required: true}},
		References: []entity.Reference{{Field: "order", Target: "Order"}},
	})
	return registry
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/checkout.yaml": &fstest.MapFile{Data: []byte(checkoutManifest)},
	}

	store, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"checkout"}, store.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	definition, ok := store.Definition("checkout")
	if !ok {
		t.Fatal("checkout definition not found")
	}

	want := manifest.Definition{
		Name:     "checkout",
		MainForm: "order",
		Subforms: []manifest.Subform{
			{Name: "customer", Entity: "Customer", Prefix: "customer"},
			{Name: "order", Entity: "Order", Prefix: "order"},
			{Name: "lines", Entity: "OrderLine", Collection: true},
		},
		Validators: []manifest.Validator{
			{Expr: "order.total > 0", Message: "order total must be positive"},
		},
	}
	if diff := cmp.Diff(want, definition); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSSkipsUnrelatedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md":  &fstest.MapFile{Data: []byte("# not a manifest")},
		"notes.txt":  &fstest.MapFile{Data: []byte("also not")},
		"empty.yaml": &fstest.MapFile{Data: []byte("")},
	}

	store, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if !store.Empty() {
		t.Errorf("expected an empty store, got %v", store.Names())
	}
}

func TestLoadFSNilFilesystem(t *testing.T) {
	store, err := manifest.LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if !store.Empty() {
		t.Error("expected an empty store for a nil filesystem")
	}
}

func TestLoadFSRejectsDuplicateForms(t *testing.T) {
	doc := `
forms:
  checkout:
    subforms:
      - name: order
        entity: Order
`
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte(doc)},
		"b.yaml": &fstest.MapFile{Data: []byte(doc)},
	}

	if _, err := manifest.LoadFS(fsys); err == nil {
		t.Error("expected duplicate form names across files to fail")
	}
}

func TestLoadFSValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			name: "no subforms",
			doc: `
forms:
  broken: {}
`,
		},
		{
			name: "unnamed subform",
			doc: `
forms:
  broken:
    subforms:
      - entity: Order
`,
		},
		{
			name: "duplicate subform",
			doc: `
forms:
  broken:
    subforms:
      - name: order
        entity: Order
      - name: order
        entity: Order
`,
		},
		{
			name: "subform without entity",
			doc: `
forms:
  broken:
    subforms:
      - name: order
`,
		},
		{
			name: "unknown main form",
			doc: `
forms:
  broken:
    main_form: nope
    subforms:
      - name: order
        entity: Order
`,
		},
		{
			name: "validator without expression",
			doc: `
forms:
  broken:
    subforms:
      - name: order
        entity: Order
    validators:
      - message: "no expr"
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"broken.yaml": &fstest.MapFile{Data: []byte(tc.doc)},
			}
			if _, err := manifest.LoadFS(fsys); err == nil {
				t.Error("expected the malformed manifest to fail")
			}
		})
	}
}

func TestDefinitionBuilderEndToEnd(t *testing.T) {
	fsys := fstest.MapFS{
		"checkout.yaml": &fstest.MapFile{Data: []byte(checkoutManifest)},
	}
	manifests, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	definition, _ := manifests.Definition("checkout")

	store := record.NewStore()
	builder, err := definition.Builder(checkoutRegistry(t), store)
	if err != nil {
		t.Fatalf("Builder returned error: %v", err)
	}

	combined, err := builder.Build(form.Request{
		Values: map[string]any{
			"customer-email": "a@b.c",
			"order-total":    49.5,
			"lines": []map[string]any{
				{"sku": "SKU-1"},
				{"sku": "SKU-2"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	outcome, err := combined.Save(context.Background())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"customer", "order", "lines"}, outcome.Order()); diff != "" {
		t.Errorf("save order mismatch (-want +got):\n%s", diff)
	}

	if store.Count("Customer") != 1 || store.Count("Order") != 1 || store.Count("OrderLine") != 2 {
		t.Errorf("store counts = %d/%d/%d, want 1/1/2",
			store.Count("Customer"), store.Count("Order"), store.Count("OrderLine"))
	}

	main, ok := outcome.Main()
	if !ok {
		t.Fatal("expected the order result as main")
	}
	orderRec, ok := main.Single()
	if !ok {
		t.Fatal("order form did not produce a single record")
	}

	customerResult, _ := outcome.Result("customer")
	customerRec, _ := customerResult.Single()
	if orderRec.(*record.Record).Data["customer"] != customerRec.RecordID() {
		t.Error("order record is not linked to the customer record")
	}

	linesResult, _ := outcome.Result("lines")
	for i, line := range linesResult.Records() {
		if line.(*record.Record).Data["order"] != orderRec.RecordID() {
			t.Errorf("line %d is not linked to the order record", i)
		}
	}
}

func TestDefinitionBuilderRuleFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"checkout.yaml": &fstest.MapFile{Data: []byte(checkoutManifest)},
	}
	manifests, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	definition, _ := manifests.Definition("checkout")

	builder, err := definition.Builder(checkoutRegistry(t), record.NewStore())
	if err != nil {
		t.Fatalf("Builder returned error: %v", err)
	}

	combined, err := builder.Build(form.Request{
		Values: map[string]any{
			"customer-email": "a@b.c",
			"order-total":    0,
		},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if combined.Valid() {
		t.Fatal("expected the rule to fail for a zero total")
	}
	if diff := cmp.Diff([]string{"order total must be positive"}, combined.NonFieldErrors()); diff != "" {
		t.Errorf("non-field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionBuilderUnknownEntity(t *testing.T) {
	definition := manifest.Definition{
		Name:     "broken",
		Subforms: []manifest.Subform{{Name: "thing", Entity: "Nope"}},
	}

	if _, err := definition.Builder(entity.NewRegistry(), record.NewStore()); err == nil {
		t.Error("expected an unknown entity to fail builder wiring")
	}
}

func TestDefinitionBuilderRequiresDependencies(t *testing.T) {
	definition := manifest.Definition{Name: "broken"}

	if _, err := definition.Builder(nil, record.NewStore()); err == nil {
		t.Error("expected a nil registry to be rejected")
	}
	if _, err := definition.Builder(entity.NewRegistry(), nil); err == nil {
		t.Error("expected a nil store to be rejected")
	}
}
