package array

import (
	"fmt"
	"iter"

	"github.com/born-ml/matarray/internal/matvar"
)

// ownership selects how an array holds its handle.
type ownership int

const (
	// owned: the array holds the only reference it was given and frees the
	// handle on Release.
	owned ownership = iota
	// shared: the array retained the handle; an external owner keeps its own
	// reference and the buffer lives until both have released.
	shared
)

// handleRef is the array's reference to its handle.
type handleRef struct {
	h    *matvar.Handle
	mode ownership
}

func (r *handleRef) release() {
	if r.h != nil {
		r.h.Release()
		r.h = nil
	}
}

// base is the state shared by every array shape: the handle reference, a
// typed view of its buffer and the cached column-major strides.
type base[T Element] struct {
	ref     handleRef
	data    []T
	dims    matvar.Dims
	strides []int
	gen     *generation
}

// attach points the array at h without copying.
func (b *base[T]) attach(h *matvar.Handle, mode ownership) {
	if b.gen == nil {
		b.gen = &generation{}
	} else {
		b.gen.n++
	}
	b.ref = handleRef{h: h, mode: mode}
	b.dims = h.Dims()
	b.strides = b.dims.Strides()
	b.data = elements[T](h.Data(), h.NumElements())
}

// replace swaps in a freshly allocated handle and releases the old one.
func (b *base[T]) replace(h *matvar.Handle) {
	old := b.ref
	b.attach(h, owned)
	old.release()
}

// allocate creates a zeroed handle for T after validating name and dims.
// The kind is derived from dims, so a record classifies the same whether it
// was built in memory or read from a file.
func allocate[T Element](name string, dims matvar.Dims) (*matvar.Handle, error) {
	if !matvar.ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDims, err)
	}
	dt := TagOf[T]()
	return matvar.Allocate(matvar.Spec{Name: name, Dims: dims, Type: dt, Kind: matvar.Classify(dims, dt)}, nil)
}

// reallocate builds a new handle named name with dims, lets fill initialize
// it, then swaps it in. On error the array is left untouched.
func (b *base[T]) reallocate(name string, dims matvar.Dims, fill func(dst []T)) error {
	if b.Released() {
		return ErrReleased
	}
	h, err := allocate[T](name, dims)
	if err != nil {
		return err
	}
	if fill != nil {
		fill(elements[T](h.Data(), h.NumElements()))
	}
	b.replace(h)
	return nil
}

// Name returns the variable name.
func (b *base[T]) Name() string {
	if b.ref.h == nil {
		return ""
	}
	return b.ref.h.Name()
}

// Dims returns a copy of the dimensions.
func (b *base[T]) Dims() matvar.Dims {
	return b.dims.Clone()
}

// NumElements returns the total number of elements.
func (b *base[T]) NumElements() int {
	return len(b.data)
}

// DType returns the runtime element type.
func (b *base[T]) DType() matvar.DataType {
	return TagOf[T]()
}

// Data returns the underlying buffer in column-major order (zero-copy).
//
// WARNING: Modifications to the returned slice modify the array. The slice
// is invalidated by any reallocating operation.
func (b *base[T]) Data() []T {
	return b.data
}

// View returns a writable zero-copy view of the buffer.
func (b *base[T]) View() View[T] {
	return newView(b.data, b.generation())
}

// ReadView returns a read-only zero-copy view of the buffer.
func (b *base[T]) ReadView() ReadView[T] {
	return b.View().ReadOnly()
}

// Handle returns the wrapped handle without transferring ownership.
// The handle is replaced by reallocating operations and is nil after Release.
func (b *base[T]) Handle() *matvar.Handle {
	return b.ref.h
}

// IsShared reports whether the handle is shared with an external owner.
// Reallocation always produces an exclusively owned handle.
func (b *base[T]) IsShared() bool {
	return b.ref.h != nil && b.ref.mode == shared
}

// Generation returns the number of reallocations so far.
func (b *base[T]) Generation() uint64 {
	return b.generation().n
}

func (b *base[T]) generation() *generation {
	if b.gen == nil {
		b.gen = &generation{}
	}
	return b.gen
}

// SetName renames the variable.
//
// WARNING: the name is stored with the data, so this reallocates the handle
// and copies the buffer. Views, iterators and slices from Data become stale.
func (b *base[T]) SetName(name string) error {
	return b.reallocate(name, b.dims, func(dst []T) {
		copy(dst, b.data)
	})
}

// Release drops the array's handle reference. A shared handle stays alive
// for its other owners. Releasing twice is a no-op.
func (b *base[T]) Release() {
	if b.ref.h == nil {
		return
	}
	b.ref.release()
	b.generation().n++
	b.data = []T{}
	b.dims = nil
	b.strides = nil
}

// Released reports whether the array no longer holds a handle.
func (b *base[T]) Released() bool {
	return b.ref.h == nil
}

// Iterator returns a forward iterator positioned before the first element.
func (b *base[T]) Iterator() *Iterator[T] {
	return newIterator(b.data)
}

// ReverseIterator returns a reverse iterator positioned after the last element.
func (b *base[T]) ReverseIterator() *Iterator[T] {
	return newReverseIterator(b.data)
}

// All iterates over linear indices and element values in column-major order.
func (b *base[T]) All() iter.Seq2[int, T] {
	return seqForward(b.data)
}

// Backward iterates over linear indices and element values in reverse order.
func (b *base[T]) Backward() iter.Seq2[int, T] {
	return seqBackward(b.data)
}

// Values iterates over element values in column-major order.
func (b *base[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range b.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Refs iterates over live element references in column-major order.
func (b *base[T]) Refs() iter.Seq2[int, *T] {
	return seqRefs(b.data)
}

// String returns a human-readable description such as "x 2x3 double".
func (b *base[T]) String() string {
	if b.Released() {
		return fmt.Sprintf("released %s array", TagOf[T]())
	}
	return fmt.Sprintf("%s %s %s", b.Name(), b.dims, TagOf[T]())
}

// checkIndex panics on a malformed multi-index when built with the
// matarraydebug tag. Otherwise it does nothing.
func checkIndex(dims matvar.Dims, index []int) {
	if !debugChecks {
		return
	}
	if len(index) != len(dims) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(dims), len(index)))
	}
	for i, idx := range index {
		if idx < 0 || idx >= dims[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, dims[i]))
		}
	}
}

// checkLinear is checkIndex for a single linear index.
func checkLinear(n, i int) {
	if !debugChecks {
		return
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("index %d out of bounds (size %d)", i, n))
	}
}
