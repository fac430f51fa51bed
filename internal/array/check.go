package array

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
)

// CheckVector reports whether h can be wrapped as a Vector[T] without
// copying. It returns nil on success or an *IncompatibleHandleError naming
// the offending field, which is also logged.
//
// A vector accepts scalar and vector handles (and string handles when T is
// Char) whose dimensions are 1xN, Nx1 or 0x0.
func CheckVector[T Element](h *matvar.Handle) error {
	accept := func(k matvar.VariableKind) bool {
		switch k {
		case matvar.KindVector, matvar.KindScalar:
			return true
		case matvar.KindString:
			return TagOf[T]() == matvar.Char
		default:
			return false
		}
	}
	if err := checkCommon[T](h, accept, matvar.KindVector.String()); err != nil {
		return err
	}
	dims := h.Dims()
	if !isVectorDims(dims) {
		return reject(&IncompatibleHandleError{
			Variable: h.Name(),
			Field:    FieldDims,
			Want:     "1xN, Nx1 or 0x0",
			Got:      dims.String(),
		})
	}
	return nil
}

// CheckMultiDimensional reports whether h can be wrapped as a
// MultiDimensionalArray[T] without copying. Array and vector handles are
// accepted; scalars, strings and composite kinds are not.
func CheckMultiDimensional[T Element](h *matvar.Handle) error {
	accept := func(k matvar.VariableKind) bool {
		return k == matvar.KindArray || k == matvar.KindVector
	}
	return checkCommon[T](h, accept, matvar.KindArray.String())
}

// checkCommon runs the checks every shape shares, in order: presence, kind,
// complexity, element type and buffer length.
func checkCommon[T Element](h *matvar.Handle, accept func(matvar.VariableKind) bool, wantKind string) error {
	if h == nil {
		return reject(&IncompatibleHandleError{Field: FieldHandle, Want: "handle", Got: "nil"})
	}
	if h.Released() {
		return reject(&IncompatibleHandleError{Variable: h.Name(), Field: FieldHandle, Want: "live handle", Got: "released"})
	}
	if !accept(h.Kind()) {
		return reject(&IncompatibleHandleError{
			Variable: h.Name(),
			Field:    FieldKind,
			Want:     wantKind,
			Got:      h.Kind().String(),
		})
	}
	if h.IsComplex() {
		return reject(&IncompatibleHandleError{Variable: h.Name(), Field: FieldComplex, Want: "real", Got: "complex"})
	}
	if !IsConvertible[T](h.Type()) {
		return reject(&IncompatibleHandleError{
			Variable: h.Name(),
			Field:    FieldType,
			Want:     TagOf[T]().String(),
			Got:      h.Type().String(),
		})
	}
	if len(h.Data()) != h.ByteSize() {
		return reject(&IncompatibleHandleError{
			Variable: h.Name(),
			Field:    FieldData,
			Want:     fmt.Sprintf("%d bytes", h.ByteSize()),
			Got:      fmt.Sprintf("%d bytes", len(h.Data())),
		})
	}
	return nil
}

func reject(err *IncompatibleHandleError) error {
	Logger().Warn("incompatible variable",
		zap.String("variable", err.Variable),
		zap.String("field", err.Field),
		zap.String("want", err.Want),
		zap.String("got", err.Got))
	return err
}

func isVectorDims(d matvar.Dims) bool {
	if len(d) != 2 {
		return false
	}
	return d[0] == 1 || d[1] == 1 || (d[0] == 0 && d[1] == 0)
}
