package array

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
)

// DefaultMultiDimensionalArrayName is the name given to arrays created
// without one.
const DefaultMultiDimensionalArrayName = "unnamed_multidimensional_array"

// MultiDimensionalArray is an N-dimensional array of T stored in
// column-major order: the first index varies fastest.
//
// Example:
//
//	a, _ := array.NewMultiDimensionalArrayFrom("a", matvar.Dims{2, 3},
//	    []float64{1, 2, 3, 4, 5, 6})
//	a.At(1, 2) // 6
type MultiDimensionalArray[T Element] struct {
	base[T]
}

// NewMultiDimensionalArray creates an empty 0x0 array. An empty name selects
// DefaultMultiDimensionalArrayName.
func NewMultiDimensionalArray[T Element](name string) (*MultiDimensionalArray[T], error) {
	return newMultiDimensionalArray[T](name, matvar.Dims{0, 0}, nil)
}

// NewMultiDimensionalArraySized creates a zero-filled array with dims.
func NewMultiDimensionalArraySized[T Element](name string, dims matvar.Dims) (*MultiDimensionalArray[T], error) {
	return newMultiDimensionalArray[T](name, dims, nil)
}

// NewMultiDimensionalArrayFrom creates an array with dims holding a copy of
// the first dims.NumElements() elements of src, read in column-major order.
func NewMultiDimensionalArrayFrom[T Element](name string, dims matvar.Dims, src []T) (*MultiDimensionalArray[T], error) {
	if err := checkSource(dims, src); err != nil {
		return nil, err
	}
	return newMultiDimensionalArray[T](name, dims, src)
}

func newMultiDimensionalArray[T Element](name string, dims matvar.Dims, src []T) (*MultiDimensionalArray[T], error) {
	h, err := allocate[T](orDefault(name, DefaultMultiDimensionalArrayName), dims)
	if err != nil {
		return nil, err
	}
	a := &MultiDimensionalArray[T]{}
	a.attach(h, owned)
	copy(a.data, src)
	return a, nil
}

// checkSource validates a column-major source buffer against dims.
func checkSource[T Element](dims matvar.Dims, src []T) error {
	if err := dims.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDims, err)
	}
	n := dims.NumElements()
	if n == 0 {
		return nil
	}
	if src == nil {
		return fmt.Errorf("%w: dims %s", ErrNullSource, dims)
	}
	if len(src) < n {
		return fmt.Errorf("%w: dims %s need %d elements, got %d", ErrShortSource, dims, n, len(src))
	}
	return nil
}

// AdoptMultiDimensional wraps h as a MultiDimensionalArray[T] without
// copying, taking over the caller's reference. If h is incompatible it is
// left untouched and the caller keeps ownership.
func AdoptMultiDimensional[T Element](h *matvar.Handle) (*MultiDimensionalArray[T], error) {
	if err := CheckMultiDimensional[T](h); err != nil {
		return nil, err
	}
	a := &MultiDimensionalArray[T]{}
	a.attach(h, owned)
	return a, nil
}

// ShareMultiDimensional wraps h without copying while the caller keeps its
// own reference.
func ShareMultiDimensional[T Element](h *matvar.Handle) (*MultiDimensionalArray[T], error) {
	if err := CheckMultiDimensional[T](h); err != nil {
		return nil, err
	}
	a := &MultiDimensionalArray[T]{}
	a.attach(h.Retain(), shared)
	return a, nil
}

// MultiDimensionalFromHandle adopts h like AdoptMultiDimensional. If h is
// incompatible the failure is logged and an empty default array is returned.
func MultiDimensionalFromHandle[T Element](h *matvar.Handle) *MultiDimensionalArray[T] {
	a, err := AdoptMultiDimensional[T](h)
	if err == nil {
		return a
	}
	Logger().Warn("falling back to an empty multidimensional array", zap.Error(err))
	a, err = NewMultiDimensionalArray[T]("")
	if err != nil {
		panic(err) // The default name and dims are always valid
	}
	return a
}

// Rank returns the number of dimensions.
func (a *MultiDimensionalArray[T]) Rank() int {
	return len(a.dims)
}

// Offset returns the linear column-major offset of index:
// sum(index[k] * stride[k]).
func (a *MultiDimensionalArray[T]) Offset(index ...int) int {
	checkIndex(a.dims, index)
	offset := 0
	for k, idx := range index {
		offset += idx * a.strides[k]
	}
	return offset
}

// At returns a copy of the element at index.
// Each index entry must be below the matching dimension and there must be
// one entry per dimension; this is only checked in matarraydebug builds.
func (a *MultiDimensionalArray[T]) At(index ...int) T {
	return a.data[a.Offset(index...)]
}

// Ref returns a live reference to the element at index.
func (a *MultiDimensionalArray[T]) Ref(index ...int) *T {
	return &a.data[a.Offset(index...)]
}

// Set writes the element at index.
func (a *MultiDimensionalArray[T]) Set(value T, index ...int) {
	a.data[a.Offset(index...)] = value
}

// FromVectorizedArray replaces the contents with src laid out in
// column-major order with dims. When dims match the current dimensions the
// copy is done in place; otherwise the array is reallocated.
func (a *MultiDimensionalArray[T]) FromVectorizedArray(dims matvar.Dims, src []T) error {
	if a.Released() {
		return ErrReleased
	}
	if err := checkSource(dims, src); err != nil {
		return err
	}
	if dims.Equal(a.dims) {
		copy(a.data, src)
		return nil
	}
	return a.reallocate(a.Name(), dims, func(dst []T) {
		copy(dst, src)
	})
}

// CopyFrom copies other's dimensions and data, keeping this array's name.
func (a *MultiDimensionalArray[T]) CopyFrom(other *MultiDimensionalArray[T]) error {
	if other.Released() {
		return ErrReleased
	}
	return a.FromVectorizedArray(other.dims, other.data)
}

// Resize changes the dimensions. Elements are kept by linear position: the
// first min(old, new) elements survive and any new tail is zero.
//
// WARNING: this always reallocates the handle.
func (a *MultiDimensionalArray[T]) Resize(dims matvar.Dims) error {
	return a.reallocate(a.Name(), dims, func(dst []T) {
		copy(dst, a.data)
	})
}

// Clone returns a deep copy of the array with its own handle.
func (a *MultiDimensionalArray[T]) Clone() (*MultiDimensionalArray[T], error) {
	if a.Released() {
		return nil, ErrReleased
	}
	h, err := a.ref.h.Duplicate()
	if err != nil {
		return nil, err
	}
	c := &MultiDimensionalArray[T]{}
	c.attach(h, owned)
	return c, nil
}
