// Package schema derives field metadata for record types: plain Go structs
// whose exported fields are assembled by a builder before construction.
//
// Every exported struct field is classified into exactly one of three
// classes. Fields tagged `builder:"-"` (and unexported fields) are excluded
// from construction. Settable fields with a declared default are optional;
// settable fields without one are required. Defaults are declared with a
// `default:"<literal>"` struct tag or registered at describe time with
// WithDefault / WithDefaultFunc.
package schema

import "reflect"

// FieldClass partitions a record type's declared fields.
type FieldClass int

const (
	// ClassExcluded marks fields that do not participate in construction.
	ClassExcluded FieldClass = iota
	// ClassRequired marks settable fields without a default.
	ClassRequired
	// ClassOptional marks settable fields with a default value or factory.
	ClassOptional
)

func (c FieldClass) String() string {
	switch c {
	case ClassExcluded:
		return "excluded"
	case ClassRequired:
		return "required"
	case ClassOptional:
		return "optional"
	}
	return "unknown"
}

// FieldDescriptor describes a single declared field of a record type. The
// declared Go type is carried for introspection; assignability against it is
// enforced by the builder, not here.
type FieldDescriptor struct {
	// Name is the Go field name and the name used for assignment.
	Name string
	// Type is the field's declared Go type.
	Type reflect.Type
	// Index is the field's position within the struct declaration.
	Index int
	// Class reports whether the field is required, optional, or excluded.
	Class FieldClass
	// Tag exposes the raw struct tag for callers layering their own metadata.
	Tag reflect.StructTag

	defaultValue any
	defaultFunc  func() any
	hasDefault   bool
}

// Settable reports whether the field participates in construction.
func (f FieldDescriptor) Settable() bool {
	return f.Class != ClassExcluded
}

// HasDefault reports whether the field declared a default value or factory.
func (f FieldDescriptor) HasDefault() bool {
	return f.hasDefault
}

// Default resolves the field's default. Factories are invoked on every call
// so mutable defaults (slices, maps) are never shared between records.
func (f FieldDescriptor) Default() (any, bool) {
	if !f.hasDefault {
		return nil, false
	}
	if f.defaultFunc != nil {
		return f.defaultFunc(), true
	}
	return f.defaultValue, true
}

// RecordType is the immutable field-descriptor set for one struct type. It is
// derived once by Describe and shared by every builder created for the type.
type RecordType struct {
	goType reflect.Type
	fields []FieldDescriptor
	index  map[string]int
}

// Name returns the record type's Go name.
func (rt *RecordType) Name() string {
	return rt.goType.Name()
}

// GoType returns the underlying struct type.
func (rt *RecordType) GoType() reflect.Type {
	return rt.goType
}

// NumFields returns the number of declared fields, excluded ones included.
func (rt *RecordType) NumFields() int {
	return len(rt.fields)
}

// Field returns the descriptor for the named field.
func (rt *RecordType) Field(name string) (FieldDescriptor, bool) {
	i, ok := rt.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return rt.fields[i], true
}

// Fields returns all declared fields in declaration order.
func (rt *RecordType) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(rt.fields))
	copy(out, rt.fields)
	return out
}

// Settable returns the fields that participate in construction, in
// declaration order. Settable is always the union of Required and Optional.
func (rt *RecordType) Settable() []FieldDescriptor {
	return rt.filter(func(f FieldDescriptor) bool { return f.Settable() })
}

// Required returns the settable fields without a default, in declaration
// order.
func (rt *RecordType) Required() []FieldDescriptor {
	return rt.filter(func(f FieldDescriptor) bool { return f.Class == ClassRequired })
}

// Optional returns the settable fields with a default, in declaration order.
func (rt *RecordType) Optional() []FieldDescriptor {
	return rt.filter(func(f FieldDescriptor) bool { return f.Class == ClassOptional })
}

func (rt *RecordType) filter(keep func(FieldDescriptor) bool) []FieldDescriptor {
	var out []FieldDescriptor
	for _, f := range rt.fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
