package schema_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-structbuilder/pkg/schema"
)

type pixel struct {
	X int
	Y int
}

type point struct {
	X float64
	Y float64
	W float64 `default:"1.0"`
}

type article struct {
	ID    int
	Title string `default:"untitled"`
	Draft bool   `default:"true"`
	notes string
	Audit string `builder:"-"`
}

var _ = article{notes: ""}

func names(fields []schema.FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestDescribe_Classification(t *testing.T) {
	rt, err := schema.Describe(article{})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	if diff := cmp.Diff([]string{"ID", "Title", "Draft"}, names(rt.Settable())); diff != "" {
		t.Fatalf("settable mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ID"}, names(rt.Required())); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Title", "Draft"}, names(rt.Optional())); diff != "" {
		t.Fatalf("optional mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"notes", "Audit"} {
		desc, ok := rt.Field(name)
		if !ok {
			t.Fatalf("field %q not described", name)
		}
		if desc.Settable() {
			t.Fatalf("field %q should be excluded", name)
		}
	}
}

func TestDescribe_SettableIsRequiredPlusOptional(t *testing.T) {
	rt, err := schema.Describe(point{})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	union := append(names(rt.Required()), names(rt.Optional())...)
	seen := make(map[string]bool)
	for _, name := range union {
		if seen[name] {
			t.Fatalf("field %q in both required and optional", name)
		}
		seen[name] = true
	}
	for _, name := range names(rt.Settable()) {
		if !seen[name] {
			t.Fatalf("settable field %q missing from required ∪ optional", name)
		}
	}
	if len(union) != len(rt.Settable()) {
		t.Fatalf("settable has %d fields, union has %d", len(rt.Settable()), len(union))
	}
}

func TestDescribe_TagDefaults(t *testing.T) {
	rt, err := schema.Describe(point{})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	desc, ok := rt.Field("W")
	if !ok {
		t.Fatalf("field W not described")
	}
	value, ok := desc.Default()
	if !ok {
		t.Fatalf("W should carry a default")
	}
	if value != 1.0 {
		t.Fatalf("expected default 1.0, got %v", value)
	}

	if desc, _ := rt.Field("X"); desc.HasDefault() {
		t.Fatalf("X should not carry a default")
	}
}

func TestDescribe_CachesPlainDescriptions(t *testing.T) {
	first, err := schema.Describe(pixel{})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	second, err := schema.Describe(&pixel{})
	if err != nil {
		t.Fatalf("describe pointer: %v", err)
	}
	if first != second {
		t.Fatalf("plain descriptions should share a cached RecordType")
	}
}

func TestDescribe_OptionedDescriptionsAreNotCached(t *testing.T) {
	plain, err := schema.Describe(pixel{})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	custom, err := schema.Describe(pixel{}, schema.WithDefault("Y", 7))
	if err != nil {
		t.Fatalf("describe with options: %v", err)
	}
	if plain == custom {
		t.Fatalf("optioned description must not replace the cached one")
	}
	if got := len(custom.Required()); got != 1 {
		t.Fatalf("expected 1 required field after WithDefault, got %d", got)
	}
}

func TestDescribe_InvalidTargets(t *testing.T) {
	cases := []struct {
		name   string
		target any
	}{
		{"nil", nil},
		{"int", 42},
		{"slice", []string{}},
		{"reflect type", reflect.TypeOf(42)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.Describe(tc.target)
			var invalid *schema.InvalidTargetError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidTargetError, got %v", err)
			}
		})
	}
}

func TestDescribe_NilStructPointerTarget(t *testing.T) {
	rt, err := schema.Describe((*point)(nil))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if rt.Name() != "point" {
		t.Fatalf("expected record name point, got %q", rt.Name())
	}
}

func TestDescribe_BadDefaultLiteral(t *testing.T) {
	type broken struct {
		N int `default:"not-a-number"`
	}
	_, err := schema.Describe(broken{})
	var invalid *schema.InvalidTargetError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTargetError, got %v", err)
	}
}

func TestDescribe_DefaultOnExcludedField(t *testing.T) {
	type broken struct {
		N int `builder:"-" default:"3"`
	}
	_, err := schema.Describe(broken{})
	var invalid *schema.InvalidTargetError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTargetError, got %v", err)
	}
}

func TestDescribe_WithDefaultFunc(t *testing.T) {
	type bag struct {
		Items []string
	}
	rt, err := schema.Describe(bag{}, schema.WithDefaultFunc("Items", func() any {
		return []string{"seed"}
	}))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	desc, _ := rt.Field("Items")
	first, _ := desc.Default()
	second, _ := desc.Default()
	a := first.([]string)
	b := second.([]string)
	if &a[0] == &b[0] {
		t.Fatalf("factory defaults must not share backing storage")
	}
}

func TestDescribe_WithDefaultValidation(t *testing.T) {
	if _, err := schema.Describe(pixel{}, schema.WithDefault("Missing", 1)); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := schema.Describe(pixel{}, schema.WithDefault("X", "nope")); err == nil {
		t.Fatalf("expected error for unassignable default")
	}
}

func TestDescribe_WithExclude(t *testing.T) {
	rt, err := schema.Describe(pixel{}, schema.WithExclude("Y"))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if diff := cmp.Diff([]string{"X"}, names(rt.Settable())); diff != "" {
		t.Fatalf("settable mismatch (-want +got):\n%s", diff)
	}
}
