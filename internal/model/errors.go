package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by lookups of unknown entity identifiers.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing required scalar or a value that fails
// its invariants at construction.
type ValidationError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	subject := string(e.Kind)
	if subject == "" {
		subject = "value"
	}
	if e.Field != "" {
		subject += "." + e.Field
	}
	return fmt.Sprintf("invalid %s: %s", subject, e.Reason)
}

// IndexError reports an out-of-range position or a reorder that is not a
// permutation of the current sequence.
type IndexError struct {
	Relation string
	Reason   string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error on %s: %s", e.Relation, e.Reason)
}

// IntegrityError reports an operation that would leave the graph with
// broken ownership or dangling references.
type IntegrityError struct {
	Op     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error during %s: %s", e.Op, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsIndex reports whether err wraps an *IndexError.
func IsIndex(err error) bool {
	var target *IndexError
	return errors.As(err, &target)
}

// IsIntegrity reports whether err wraps an *IntegrityError.
func IsIntegrity(err error) bool {
	var target *IntegrityError
	return errors.As(err, &target)
}
