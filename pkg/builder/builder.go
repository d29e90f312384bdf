// Package builder implements staged construction of record types: collect
// field values by name, validate every assignment against the type's
// settable field set, then finalize into a struct value or patch an existing
// one.
//
// A Builder is not safe for concurrent use; callers sharing one across
// goroutines must serialize access. The schema descriptions it relies on are
// shared and read-only.
package builder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-structbuilder/pkg/schema"
)

// FieldState is the explicit three-state answer to "what does reading this
// field observe": an assigned value, or an unset field that will either
// block Build (required) or fall back to its default (optional).
type FieldState int

const (
	// StateAssigned means the field currently holds a value.
	StateAssigned FieldState = iota
	// StateRequired means the field is unset and has no default.
	StateRequired
	// StateOptional means the field is unset and its default applies.
	StateOptional
)

func (s FieldState) String() string {
	switch s {
	case StateAssigned:
		return "assigned"
	case StateRequired:
		return "required"
	case StateOptional:
		return "optional"
	}
	return "unknown"
}

// Builder stages field values for a record of type T. The zero value is not
// usable; construct with New or MustNew.
type Builder[T any] struct {
	recordType *schema.RecordType
	values     map[string]any
}

// New creates a builder for T, deriving (or reusing, see WithSchema) the
// record type's field descriptors and applying any seed values. Seeding a
// name outside the settable set fails with UndefinedFieldError, exactly as
// Set would.
func New[T any](opts ...Option) (*Builder[T], error) {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	rt := cfg.recordType
	if rt == nil {
		var err error
		rt, err = schema.Describe((*T)(nil), cfg.schemaOpts...)
		if err != nil {
			return nil, err
		}
	} else if rt.GoType() != reflect.TypeFor[T]() {
		return nil, fmt.Errorf("builder: schema describes %s, not %s", rt.GoType(), reflect.TypeFor[T]())
	}

	b := &Builder[T]{
		recordType: rt,
		values:     make(map[string]any),
	}
	for _, s := range cfg.seeds {
		if err := b.Set(s.name, s.value); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustNew is New panicking on error, for builders whose seeds are known
// good.
func MustNew[T any](opts ...Option) *Builder[T] {
	b, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// RecordType exposes the builder's shared field description.
func (b *Builder[T]) RecordType() *schema.RecordType {
	return b.recordType
}

// Set assigns a value to the named field. The name must be in the settable
// set and the value assignable to the field's declared Go type.
func (b *Builder[T]) Set(name string, value any) error {
	desc, err := b.settable(name)
	if err != nil {
		return err
	}
	if !assignable(value, desc.Type) {
		return &InvalidValueError{Record: b.recordType.Name(), Field: name, Value: value}
	}
	b.values[name] = value
	return nil
}

// Unset removes an assignment, returning the field to its unset state. The
// name is validated like Set; unsetting an already-unset field is a no-op.
func (b *Builder[T]) Unset(name string) error {
	if _, err := b.settable(name); err != nil {
		return err
	}
	delete(b.values, name)
	return nil
}

// Get returns the currently assigned value for the named field. The second
// result reports whether the field has been assigned; unset fields yield
// (nil, false) rather than a sentinel. Unknown names also yield (nil, false);
// use State to distinguish them.
func (b *Builder[T]) Get(name string) (any, bool) {
	value, ok := b.values[name]
	return value, ok
}

// Has reports whether the named field is currently assigned.
func (b *Builder[T]) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// State classifies the named field: assigned, unset-required, or
// unset-optional. Unknown or excluded names fail with UndefinedFieldError.
func (b *Builder[T]) State(name string) (FieldState, error) {
	desc, err := b.settable(name)
	if err != nil {
		return 0, err
	}
	if _, ok := b.values[name]; ok {
		return StateAssigned, nil
	}
	if desc.Class == schema.ClassOptional {
		return StateOptional, nil
	}
	return StateRequired, nil
}

// Fields returns the builder's settable field descriptors in declaration
// order. WithoutRequired and WithoutOptional narrow the result; passing both
// returns an empty slice. Repeated calls without intervening schema changes
// return equal results.
func (b *Builder[T]) Fields(opts ...FieldsOption) []schema.FieldDescriptor {
	cfg := &fieldsConfig{required: true, optional: true}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	switch {
	case cfg.required && cfg.optional:
		return b.recordType.Settable()
	case cfg.required:
		return b.recordType.Required()
	case cfg.optional:
		return b.recordType.Optional()
	}
	return []schema.FieldDescriptor{}
}

// Build constructs a T from the assigned fields. Unset optional fields take
// their declared default; an unset required field fails with
// MissingFieldError naming the first one in declaration order. Build may be
// called repeatedly and re-validates every time; assignment order never
// affects the result.
func (b *Builder[T]) Build() (T, error) {
	var out T

	for _, desc := range b.recordType.Required() {
		if _, ok := b.values[desc.Name]; !ok {
			return out, &MissingFieldError{Record: b.recordType.Name(), Field: desc.Name}
		}
	}

	rv := reflect.ValueOf(&out).Elem()
	for _, desc := range b.recordType.Settable() {
		value, ok := b.values[desc.Name]
		if !ok {
			value, ok = desc.Default()
			if !ok {
				continue
			}
			if !assignable(value, desc.Type) {
				return out, &InvalidValueError{Record: b.recordType.Name(), Field: desc.Name, Value: value}
			}
		}
		setField(rv.Field(desc.Index), value)
	}
	return out, nil
}

// Apply patches the target in place: every assigned field overwrites the
// same-named field on target, unassigned fields are left untouched. Defaults
// do not apply here; this is a partial update, not a build.
func (b *Builder[T]) Apply(target *T) error {
	if target == nil {
		return errors.New("builder: nil update target")
	}
	rv := reflect.ValueOf(target).Elem()
	for _, desc := range b.recordType.Settable() {
		if value, ok := b.values[desc.Name]; ok {
			setField(rv.Field(desc.Index), value)
		}
	}
	return nil
}

// String renders the builder as a constructor-style expression, listing only
// assigned fields, in declaration order.
func (b *Builder[T]) String() string {
	var sb strings.Builder
	sb.WriteString("Builder(")
	sb.WriteString(b.recordType.Name())
	for _, desc := range b.recordType.Settable() {
		if value, ok := b.values[desc.Name]; ok {
			fmt.Fprintf(&sb, ", %s=%s", desc.Name, formatValue(value))
		}
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *Builder[T]) settable(name string) (schema.FieldDescriptor, error) {
	desc, ok := b.recordType.Field(name)
	if !ok || !desc.Settable() {
		return schema.FieldDescriptor{}, &UndefinedFieldError{Record: b.recordType.Name(), Field: name}
	}
	return desc, nil
}

func setField(field reflect.Value, value any) {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return
	}
	field.Set(reflect.ValueOf(value))
}

func assignable(value any, t reflect.Type) bool {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Chan, reflect.Func:
			return true
		}
		return false
	}
	return reflect.TypeOf(value).AssignableTo(t)
}

func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", value)
}
