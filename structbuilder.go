// Package structbuilder assembles record values incrementally: create a
// builder for a struct type, assign fields by name with validation, then
// build a new value or patch an existing one. It fronts the pkg/builder and
// pkg/schema packages; code generation for typed per-record builders lives
// in pkg/codegen and cmd/structbuilder-gen.
//
//	b, err := structbuilder.New[Point]()
//	_ = b.Set("X", 5.8)
//	_ = b.Set("Y", 8.1)
//	point, err := b.Build()
package structbuilder

import (
	"github.com/goliatone/go-structbuilder/pkg/builder"
	"github.com/goliatone/go-structbuilder/pkg/codegen"
	"github.com/goliatone/go-structbuilder/pkg/definition"
	"github.com/goliatone/go-structbuilder/pkg/schema"
)

// Error types surfaced across the package boundary.
type (
	InvalidTargetError  = schema.InvalidTargetError
	UndefinedFieldError = builder.UndefinedFieldError
	MissingFieldError   = builder.MissingFieldError
	InvalidValueError   = builder.InvalidValueError
)

// Re-exported descriptor types for introspection callers.
type (
	RecordType      = schema.RecordType
	FieldDescriptor = schema.FieldDescriptor
	FieldClass      = schema.FieldClass
)

// New creates a builder for the record type T.
func New[T any](opts ...builder.Option) (*builder.Builder[T], error) {
	return builder.New[T](opts...)
}

// MustNew is New panicking on error.
func MustNew[T any](opts ...builder.Option) *builder.Builder[T] {
	return builder.MustNew[T](opts...)
}

// Describe derives (or fetches the cached) field description for a record
// type.
func Describe(target any, opts ...schema.Option) (*schema.RecordType, error) {
	return schema.Describe(target, opts...)
}

// Generate renders typed builders for a validated definition file.
func Generate(file definition.File) ([]byte, error) {
	gen, err := codegen.New()
	if err != nil {
		return nil, err
	}
	return gen.File(file)
}
