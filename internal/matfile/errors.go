package matfile

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidHeader      = errors.New("matfile: invalid header")
	ErrUnsupportedVersion = errors.New("matfile: unsupported format version")
	ErrTruncated          = errors.New("matfile: truncated data element")
	ErrMalformed          = errors.New("matfile: malformed variable")
	ErrVariableNotFound   = errors.New("matfile: variable not found")
	ErrTooLarge           = errors.New("matfile: data exceeds size limit")
)

// ValidationError provides detailed information about a variable that
// cannot be written.
type ValidationError struct {
	Type     string // Type of error (e.g., "invalid_name", "duplicate_name")
	Variable string // Variable name involved
	Details  string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("%s: variable %q: %s", e.Type, e.Variable, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
