package entity_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-combinedform/pkg/entity"
)

func TestDependenciesWithin(t *testing.T) {
	descriptor := entity.Descriptor{
		Name: "Order",
		References: []entity.Reference{
			{Field: "customer", Target: "Customer"},
			{Field: "warehouse", Target: "Warehouse"},
			{Field: "coupon", Target: "Coupon"},
		},
	}

	got := descriptor.DependenciesWithin(entity.NewSet("Customer", "Coupon", "Order"))
	want := []entity.Reference{
		{Field: "customer", Target: "Customer"},
		{Field: "coupon", Target: "Coupon"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("filtered references mismatch (-want +got):\n%s", diff)
	}
}

func TestDependenciesWithinNilSetReturnsEverything(t *testing.T) {
	descriptor := entity.Descriptor{
		Name: "Order",
		References: []entity.Reference{
			{Field: "customer", Target: "Customer"},
		},
	}

	got := descriptor.DependenciesWithin(nil)
	if diff := cmp.Diff(descriptor.References, got); diff != "" {
		t.Errorf("unfiltered references mismatch (-want +got):\n%s", diff)
	}
}

func TestDependenciesWithinEmptySetDropsEverything(t *testing.T) {
	descriptor := entity.Descriptor{
		Name: "Order",
		References: []entity.Reference{
			{Field: "customer", Target: "Customer"},
		},
	}

	if got := descriptor.DependenciesWithin(entity.NewSet()); len(got) != 0 {
		t.Errorf("expected no references for an empty set, got %v", got)
	}
}

func TestDescriptorValidate(t *testing.T) {
	cases := []struct {
		name       string
		descriptor entity.Descriptor
		wantErr    bool
	}{
		{
			name: "valid",
			descriptor: entity.Descriptor{
				Name:       "Order",
				Fields:     []entity.Field{{Name: "total", Kind: entity.FieldNumber}},
				References: []entity.Reference{{Field: "customer", Target: "Customer"}},
			},
		},
		{
			name:       "missing name",
			descriptor: entity.Descriptor{},
			wantErr:    true,
		},
		{
			name: "duplicate field",
			descriptor: entity.Descriptor{
				Name: "Order",
				Fields: []entity.Field{
					{Name: "total"},
					{Name: "total"},
				},
			},
			wantErr: true,
		},
		{
			name: "reference without target",
			descriptor: entity.Descriptor{
				Name:       "Order",
				References: []entity.Reference{{Field: "customer"}},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.descriptor.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSetOf(t *testing.T) {
	descriptors := []entity.Descriptor{{Name: "Foo"}, {Name: "Bar"}}
	set := entity.SetOf(descriptors)

	if !set.Has("Foo") || !set.Has("Bar") {
		t.Errorf("set is missing members: %v", set)
	}
	if set.Has("Buzz") {
		t.Error("set should not contain Buzz")
	}
}
