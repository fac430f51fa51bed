package matfile

import (
	"fmt"
	"math"

	"github.com/born-ml/matarray/internal/matvar"
)

// Validation limits for security and resource protection.
const (
	MaxVariableCount    = 100_000                // Maximum number of variables in a file
	MaxElementCount     = 1 << 30                // Maximum elements in one variable
	MaxDecompressedSize = 2 * 1024 * 1024 * 1024 // 2GB - maximum inflated size of one compressed element
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict fails the whole read on the first malformed variable (default).
	ValidationStrict ValidationLevel = iota
	// ValidationLenient logs and skips malformed variables. Truncated files still fail.
	ValidationLenient
)

// ValidateVariables checks that vars can be written into one file.
func ValidateVariables(vars []*matvar.Handle) error {
	if len(vars) > MaxVariableCount {
		return &ValidationError{
			Type:    "too_many_variables",
			Details: fmt.Sprintf("got %d, max %d", len(vars), MaxVariableCount),
		}
	}

	seen := make(map[string]struct{}, len(vars))
	for i, h := range vars {
		if h == nil {
			return &ValidationError{Type: "nil_variable", Details: fmt.Sprintf("index %d", i)}
		}
		if err := ValidateVariable(h); err != nil {
			return err
		}
		if _, dup := seen[h.Name()]; dup {
			return &ValidationError{
				Type:     "duplicate_name",
				Variable: h.Name(),
				Details:  "name already used by an earlier variable",
			}
		}
		seen[h.Name()] = struct{}{}
	}
	return nil
}

// ValidateVariable checks that one handle can be encoded.
func ValidateVariable(h *matvar.Handle) error {
	if h.Released() {
		return &ValidationError{Type: "released", Variable: h.Name(), Details: "handle has been released"}
	}
	if !matvar.ValidName(h.Name()) {
		return &ValidationError{
			Type:     "invalid_name",
			Variable: h.Name(),
			Details:  fmt.Sprintf("must start with a letter, use letters, digits or '_' and be at most %d bytes", matvar.MaxNameLength),
		}
	}
	if !h.Type().Valid() {
		return &ValidationError{
			Type:     "unsupported_type",
			Variable: h.Name(),
			Details:  fmt.Sprintf("%s variables cannot be written", h.Kind()),
		}
	}
	if h.IsComplex() && (h.Type() == matvar.Char || h.Type() == matvar.Logical) {
		return &ValidationError{
			Type:     "unsupported_type",
			Variable: h.Name(),
			Details:  fmt.Sprintf("complex %s is not representable", h.Type()),
		}
	}
	for _, d := range h.Dims() {
		if int64(d) > math.MaxInt32 {
			return &ValidationError{
				Type:     "dims_too_large",
				Variable: h.Name(),
				Details:  fmt.Sprintf("dimension %d exceeds int32", d),
			}
		}
	}
	return nil
}
