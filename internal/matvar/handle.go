package matvar

import (
	"fmt"
	"math"
	"unsafe"
)

// Spec describes the variable record to allocate.
type Spec struct {
	Name    string
	Dims    Dims
	Type    DataType
	Kind    VariableKind
	Complex bool
}

// Handle is a dynamically-typed variable record: name, column-major
// dimensions, element type, structural kind and a raw buffer holding
// Dims.NumElements() elements of Type.
//
// Handles are reference counted. A new handle has one reference; Retain adds
// one and Release drops one, freeing the buffers when the count reaches zero.
// Handles are not safe for concurrent use.
type Handle struct {
	name    string
	dims    Dims
	dtype   DataType
	kind    VariableKind
	complex bool
	real    []byte
	imag    []byte // Only set when complex
	refs    int
}

// Allocate creates a new handle described by spec.
// If data is nil the buffer is zero-initialized, otherwise the first
// ByteSize bytes of data are copied in (column-major order).
// A complex handle gets a zeroed imaginary part; use AllocateComplex to
// provide one.
func Allocate(spec Spec, data []byte) (*Handle, error) {
	return AllocateComplex(spec, data, nil)
}

// AllocateComplex creates a new handle like Allocate and, when spec.Complex
// is set, copies im into the imaginary buffer.
func AllocateComplex(spec Spec, re, im []byte) (*Handle, error) {
	if err := spec.Dims.Validate(); err != nil {
		return nil, fmt.Errorf("variable %q: %w", spec.Name, err)
	}
	composite := spec.Kind == KindStruct || spec.Kind == KindCell ||
		spec.Kind == KindStructArray || spec.Kind == KindUnsupported
	if !spec.Type.Valid() && !composite {
		return nil, fmt.Errorf("variable %q: %w: %d", spec.Name, ErrInvalidType, spec.Type)
	}

	n := spec.Dims.NumElements()
	if elem := spec.Type.Size(); elem > 0 && n > math.MaxInt/elem {
		return nil, fmt.Errorf("variable %q: %d elements of %d bytes overflow int", spec.Name, n, elem)
	}
	size := n * spec.Type.Size()
	h := &Handle{
		name:    spec.Name,
		dims:    spec.Dims.Clone(),
		dtype:   spec.Type,
		kind:    spec.Kind,
		complex: spec.Complex,
		real:    alignedBytes(size),
		refs:    1,
	}
	if re != nil {
		if len(re) < size {
			return nil, fmt.Errorf("variable %q: %w: got %d bytes, need %d", spec.Name, ErrShortData, len(re), size)
		}
		copy(h.real, re)
	}
	if spec.Complex {
		h.imag = alignedBytes(size)
		if im != nil {
			if len(im) < size {
				return nil, fmt.Errorf("variable %q: imaginary part: %w: got %d bytes, need %d",
					spec.Name, ErrShortData, len(im), size)
			}
			copy(h.imag, im)
		}
	}
	return h, nil
}

// alignedBytes returns a zeroed byte buffer of length n whose start is
// 8-byte aligned, so it can be reinterpreted as a slice of any element type.
func alignedBytes(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	//nolint:gosec // unsafe.Slice over a []uint64 allocation of at least n bytes
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

// Name returns the variable name.
func (h *Handle) Name() string {
	return h.name
}

// Dims returns a copy of the variable dimensions.
func (h *Handle) Dims() Dims {
	return h.dims.Clone()
}

// Rank returns the number of dimensions.
func (h *Handle) Rank() int {
	return len(h.dims)
}

// Type returns the element type.
func (h *Handle) Type() DataType {
	return h.dtype
}

// Kind returns the structural kind.
func (h *Handle) Kind() VariableKind {
	return h.kind
}

// IsComplex reports whether the variable carries an imaginary part.
func (h *Handle) IsComplex() bool {
	return h.complex
}

// NumElements returns the number of elements described by the dimensions.
func (h *Handle) NumElements() int {
	return h.dims.NumElements()
}

// ByteSize returns the size of the real buffer in bytes.
func (h *Handle) ByteSize() int {
	return h.NumElements() * h.dtype.Size()
}

// Data returns the real buffer in column-major order.
// WARNING: Direct access to underlying memory. The slice is nil once the
// handle has been released.
func (h *Handle) Data() []byte {
	return h.real
}

// Imag returns the imaginary buffer, or nil for real variables.
func (h *Handle) Imag() []byte {
	return h.imag
}

// Duplicate returns a deep copy of the handle with a single reference.
func (h *Handle) Duplicate() (*Handle, error) {
	if h.Released() {
		return nil, fmt.Errorf("duplicate %q: %w", h.name, ErrReleased)
	}
	return AllocateComplex(Spec{
		Name:    h.name,
		Dims:    h.dims,
		Type:    h.dtype,
		Kind:    h.kind,
		Complex: h.complex,
	}, h.real, h.imag)
}

// Retain adds a reference to the handle and returns it, for callers that
// share the record with its current owner.
func (h *Handle) Retain() *Handle {
	if h.refs > 0 {
		h.refs++
	}
	return h
}

// Release drops a reference and frees the buffers when none remain.
// Releasing an already released handle is a no-op.
func (h *Handle) Release() {
	if h.refs == 0 {
		return
	}
	h.refs--
	if h.refs == 0 {
		h.real = nil
		h.imag = nil
	}
}

// Released reports whether every reference has been released.
func (h *Handle) Released() bool {
	return h.refs == 0
}

// RefCount returns the number of live references.
func (h *Handle) RefCount() int {
	return h.refs
}

// IsUnique returns true if exactly one owner holds the handle.
func (h *Handle) IsUnique() bool {
	return h.refs == 1
}

// String returns a short description such as `x: 2x3 double`.
func (h *Handle) String() string {
	s := fmt.Sprintf("%s: %s %s", h.name, h.dims, h.dtype)
	if h.complex {
		s += " (complex)"
	}
	return s
}
