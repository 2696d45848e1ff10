package services

import "strings"

// ValidationError carries field-level messages for a rejected input.
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

// NewValidationError creates a ValidationError with a single message.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records message for field.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	if _, seen := v.Fields[field]; !seen {
		v.order = append(v.order, field)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Empty reports whether no message has been recorded.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// OrNil returns v when it holds messages, nil otherwise.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Error returns the first recorded message.
func (v *ValidationError) Error() string {
	if v.Empty() {
		return "validation failed"
	}
	return v.Fields[v.order[0]][0]
}

// String joins all messages, field by field, in insertion order.
func (v *ValidationError) String() string {
	parts := make([]string, 0, len(v.order))
	for _, field := range v.order {
		parts = append(parts, field+": "+strings.Join(v.Fields[field], " "))
	}
	return strings.Join(parts, "; ")
}
