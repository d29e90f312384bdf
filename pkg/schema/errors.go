package schema

import (
	"fmt"
	"reflect"
)

// InvalidTargetError reports that the value handed to Describe is not a
// usable record type: not a struct, a nil target, or a struct whose default
// declarations cannot be honoured. It always represents caller misuse and is
// never transient.
type InvalidTargetError struct {
	// Target is the rejected type; nil when Describe received a nil value.
	Target reflect.Type
	// Reason explains the rejection.
	Reason string
}

func (e *InvalidTargetError) Error() string {
	if e.Target == nil {
		return fmt.Sprintf("schema: invalid record type: %s", e.Reason)
	}
	return fmt.Sprintf("schema: invalid record type %s: %s", e.Target, e.Reason)
}

func invalidTarget(t reflect.Type, format string, args ...any) *InvalidTargetError {
	return &InvalidTargetError{Target: t, Reason: fmt.Sprintf(format, args...)}
}
