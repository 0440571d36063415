package resource

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one or more declared properties that failed
// their validator. Fields maps property name to a human-readable message.
type ValidationError struct {
	Resource string
	Fields   map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s validation failed: %s", e.Resource, strings.Join(parts, "; "))
}

// Is implements errors.Is for ValidationError.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NotImplementedError signals that an operation is intentionally
// unsupported for a resource type.
type NotImplementedError struct {
	Operation     string
	CollectionURL string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented for %s", e.Operation, e.CollectionURL)
}

// Is implements errors.Is for NotImplementedError.
func (e *NotImplementedError) Is(target error) bool {
	_, ok := target.(*NotImplementedError)
	return ok
}

// MissingParameterError reports a required property or argument that
// was absent or empty before a call could be issued.
type MissingParameterError struct {
	Resource  string
	Parameter string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Resource, e.Parameter)
}

// Unwrap allows errors.Is(err, ErrMissingParameter).
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// Sentinel errors for common misuse.
var (
	// ErrMissingID indicates an operation needed an id that was not set.
	ErrMissingID = errors.New("missing id")

	// ErrMissingParameter indicates a required property or argument was empty.
	ErrMissingParameter = errors.New("missing required parameter")
)
