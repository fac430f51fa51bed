package matvar

// VariableKind is the structural category of a variable, independent of its
// element type.
type VariableKind int

// Supported variable kinds.
const (
	KindUnsupported VariableKind = iota
	KindScalar
	KindVector
	KindArray
	KindString
	KindStruct
	KindCell
	KindStructArray
)

// String returns a human-readable name for the kind.
func (k VariableKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindArray:
		return "multidimensional array"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	case KindCell:
		return "cell"
	case KindStructArray:
		return "struct array"
	default:
		return "unsupported"
	}
}

// Classify returns the natural kind of a numeric or character record with the
// given dimensions, as a reader of an existing file would see it:
//
//	[1 1]          -> scalar
//	[1 N], [N 1]   -> vector (string when dt is Char)
//	[0 0]          -> vector (string when dt is Char)
//	anything else  -> array
//
// Invalid dimensions classify as KindUnsupported.
func Classify(dims Dims, dt DataType) VariableKind {
	if dims.Validate() != nil {
		return KindUnsupported
	}
	if len(dims) == 2 {
		oneD := dims[0] == 1 || dims[1] == 1 || (dims[0] == 0 && dims[1] == 0)
		switch {
		case dims[0] == 1 && dims[1] == 1 && dt != Char:
			return KindScalar
		case oneD && dt == Char:
			return KindString
		case oneD:
			return KindVector
		}
	}
	return KindArray
}
