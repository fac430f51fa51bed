package matvar

import "errors"

// Common errors.
var (
	ErrInvalidType = errors.New("matvar: invalid element type")
	ErrShortData   = errors.New("matvar: data shorter than dimensions require")
	ErrReleased    = errors.New("matvar: handle has been released")
)
