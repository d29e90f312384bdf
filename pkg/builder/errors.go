package builder

import "fmt"

// Error is implemented by every validation error raised by a Builder. All of
// them report caller misuse; none are transient or retryable.
type Error interface {
	error
	builderError()
}

// UndefinedFieldError reports an assignment, seed value, or lookup naming a
// field that is not in the record type's settable set.
type UndefinedFieldError struct {
	// Record is the record type's name.
	Record string
	// Field is the offending field name.
	Field string
}

func (e *UndefinedFieldError) Error() string {
	return fmt.Sprintf("builder: record type %s does not define field %q", e.Record, e.Field)
}

func (e *UndefinedFieldError) builderError() {}

// MissingFieldError reports a Build call made while a required field is
// unset. It always names the first unset required field in declaration
// order.
type MissingFieldError struct {
	// Record is the record type's name.
	Record string
	// Field is the first unset required field.
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("builder: required field %q of record type %s is unset", e.Field, e.Record)
}

func (e *MissingFieldError) builderError() {}

// InvalidValueError reports a value that cannot be stored in its field's
// declared Go type. The source design deferred type errors to record
// construction; reflection-based assignment has to reject them eagerly
// instead of panicking later.
type InvalidValueError struct {
	// Record is the record type's name.
	Record string
	// Field is the target field.
	Field string
	// Value is the rejected value.
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("builder: cannot assign %T to field %q of record type %s", e.Value, e.Field, e.Record)
}

func (e *InvalidValueError) builderError() {}
