// Package matvar provides the dynamically-typed variable record that backs
// every typed array: a name, column-major dimensions, an element type tag and
// a reference-counted raw buffer.
package matvar

// DataType represents the runtime element type of a variable buffer.
type DataType int

// Supported element types.
//
// Unsupported is the zero value so that an uninitialized record never
// claims a valid element type.
const (
	Unsupported DataType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Char
	Logical
)

// Size returns the byte size of one element of the data type.
// Unsupported has size 0.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8, Char, Logical:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// String returns the MATLAB class name of the data type.
func (dt DataType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "single"
	case Float64:
		return "double"
	case Char:
		return "char"
	case Logical:
		return "logical"
	default:
		return "unsupported"
	}
}

// Valid reports whether the data type describes a concrete element layout.
func (dt DataType) Valid() bool {
	return dt > Unsupported && dt <= Logical
}
