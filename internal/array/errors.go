package array

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrIncompatible = errors.New("array: incompatible handle")
	ErrNullSource   = errors.New("array: nil source for non-empty dimensions")
	ErrShortSource  = errors.New("array: source shorter than dimensions require")
	ErrInvalidName  = errors.New("array: invalid variable name")
	ErrInvalidDims  = errors.New("array: invalid dimensions")
	ErrReleased     = errors.New("array: array has been released")
)

// Fields reported by IncompatibleHandleError.
const (
	FieldHandle  = "handle"
	FieldKind    = "kind"
	FieldComplex = "complex"
	FieldType    = "type"
	FieldDims    = "dims"
	FieldData    = "data"
)

// IncompatibleHandleError identifies the handle field that prevents adoption.
type IncompatibleHandleError struct {
	Variable string // Variable name, empty for a nil handle
	Field    string // One of the Field* constants
	Want     string
	Got      string
}

// Error implements the error interface.
func (e *IncompatibleHandleError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("%s: %s: want %s, got %s", ErrIncompatible, e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: variable %q: %s: want %s, got %s", ErrIncompatible, e.Variable, e.Field, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrIncompatible) match.
func (e *IncompatibleHandleError) Is(target error) bool {
	return target == ErrIncompatible
}
