package array

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
)

// DefaultVectorName is the name given to vectors created without one.
const DefaultVectorName = "unnamed_vector"

// Vector is a one-dimensional array of T backed by a 1xN or Nx1 handle.
//
// New vectors are row vectors (1xN). Adopted vectors keep their
// orientation across resizes and assignments.
type Vector[T Element] struct {
	base[T]
}

// NewVector creates an empty 1x0 vector. An empty name selects
// DefaultVectorName.
func NewVector[T Element](name string) (*Vector[T], error) {
	return newVector[T](name, matvar.Dims{1, 0}, nil)
}

// NewVectorSized creates a zero-filled vector of n elements.
func NewVectorSized[T Element](name string, n int) (*Vector[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidDims, n)
	}
	return newVector[T](name, matvar.Dims{1, n}, nil)
}

// NewVectorFrom creates a vector holding a copy of src.
//
// Example:
//
//	v, err := array.NewVectorFrom("x", []float64{1, 2, 3})
func NewVectorFrom[T Element](name string, src []T) (*Vector[T], error) {
	return newVector[T](name, matvar.Dims{1, len(src)}, src)
}

func newVector[T Element](name string, dims matvar.Dims, src []T) (*Vector[T], error) {
	v := &Vector[T]{}
	if err := v.init(orDefault(name, DefaultVectorName), dims, src); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vector[T]) init(name string, dims matvar.Dims, src []T) error {
	h, err := allocate[T](name, dims)
	if err != nil {
		return err
	}
	v.attach(h, owned)
	copy(v.data, src)
	return nil
}

// AdoptVector wraps h as a Vector[T] without copying, taking over the
// caller's reference. If h is incompatible it is left untouched and the
// caller keeps ownership.
func AdoptVector[T Element](h *matvar.Handle) (*Vector[T], error) {
	if err := CheckVector[T](h); err != nil {
		return nil, err
	}
	v := &Vector[T]{}
	v.adopt(h, owned)
	return v, nil
}

// ShareVector wraps h as a Vector[T] without copying while the caller keeps
// its own reference. Writes are visible to every owner until the vector
// reallocates.
func ShareVector[T Element](h *matvar.Handle) (*Vector[T], error) {
	if err := CheckVector[T](h); err != nil {
		return nil, err
	}
	v := &Vector[T]{}
	v.adopt(h.Retain(), shared)
	return v, nil
}

// VectorFromHandle adopts h like AdoptVector. If h is incompatible the
// failure is logged and an empty default vector is returned instead; the
// caller keeps ownership of h in that case.
func VectorFromHandle[T Element](h *matvar.Handle) *Vector[T] {
	v, err := AdoptVector[T](h)
	if err == nil {
		return v
	}
	Logger().Warn("falling back to an empty vector", zap.Error(err))
	v, err = NewVector[T]("")
	if err != nil {
		panic(err) // The default name and dims are always valid
	}
	return v
}

func (v *Vector[T]) adopt(h *matvar.Handle, mode ownership) {
	v.attach(h, mode)
}

// Size returns the number of elements: zero if either dimension is zero,
// otherwise the larger dimension.
func (v *Vector[T]) Size() int {
	if len(v.dims) != 2 || v.dims[0] == 0 || v.dims[1] == 0 {
		return 0
	}
	return max(v.dims[0], v.dims[1])
}

// IsRow reports whether the vector is laid out as 1xN. A 1x1 vector counts
// as a row.
func (v *Vector[T]) IsRow() bool {
	return len(v.dims) != 2 || !(v.dims[1] == 1 && v.dims[0] != 1)
}

func (v *Vector[T]) shape(n int) matvar.Dims {
	if v.IsRow() {
		return matvar.Dims{1, n}
	}
	return matvar.Dims{n, 1}
}

// At returns a copy of element i.
// i must be in [0, Size()); this is only checked in matarraydebug builds.
func (v *Vector[T]) At(i int) T {
	checkLinear(len(v.data), i)
	return v.data[i]
}

// Ref returns a live reference to element i.
func (v *Vector[T]) Ref(i int) *T {
	checkLinear(len(v.data), i)
	return &v.data[i]
}

// Set writes element i.
func (v *Vector[T]) Set(i int, value T) {
	checkLinear(len(v.data), i)
	v.data[i] = value
}

// Assign copies src into the vector. When the lengths match the copy is
// done in place and the handle is kept; otherwise the vector is reallocated
// with len(src) elements in its current orientation.
func (v *Vector[T]) Assign(src []T) error {
	if v.Released() {
		return ErrReleased
	}
	if len(src) == len(v.data) {
		copy(v.data, src)
		return nil
	}
	return v.reallocate(v.Name(), v.shape(len(src)), func(dst []T) {
		copy(dst, src)
	})
}

// CopyFrom copies other into the vector, in place when the lengths match and
// by reallocation with other's dimensions otherwise. The name is kept.
func (v *Vector[T]) CopyFrom(other *Vector[T]) error {
	if v.Released() || other.Released() {
		return ErrReleased
	}
	if len(other.data) == len(v.data) {
		copy(v.data, other.data)
		return nil
	}
	return v.reallocate(v.Name(), other.dims, func(dst []T) {
		copy(dst, other.data)
	})
}

// Resize changes the number of elements to n, keeping the orientation.
// The first min(Size(), n) elements are preserved and new elements are zero.
//
// WARNING: this always reallocates the handle.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidDims, n)
	}
	return v.reallocate(v.Name(), v.shape(n), func(dst []T) {
		copy(dst, v.data)
	})
}

// Clone returns a deep copy of the vector with its own handle.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	if v.Released() {
		return nil, ErrReleased
	}
	h, err := v.ref.h.Duplicate()
	if err != nil {
		return nil, err
	}
	c := &Vector[T]{}
	c.attach(h, owned)
	return c, nil
}

func orDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
