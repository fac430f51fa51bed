package array

import "iter"

// generation counts reallocations of an array. Views keep the value they
// were issued at, which lets them report staleness.
type generation struct {
	n uint64
}

// View is a non-owning, writable window over an array's live buffer.
//
// A View is valid only until the array is reallocated (Resize, SetName,
// differing-length assignment) or released. Stale reports when that has
// happened; access through a stale View is not prevented.
type View[T Element] struct {
	data   []T
	gen    *generation
	issued uint64
}

func newView[T Element](data []T, gen *generation) View[T] {
	return View[T]{data: data, gen: gen, issued: gen.n}
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int {
	return len(v.data)
}

// At returns the element at linear index i.
func (v View[T]) At(i int) T {
	return v.data[i]
}

// Set writes the element at linear index i.
func (v View[T]) Set(i int, value T) {
	v.data[i] = value
}

// Ref returns a live reference to the element at linear index i.
func (v View[T]) Ref(i int) *T {
	return &v.data[i]
}

// Slice returns the viewed elements as a slice sharing the array buffer.
func (v View[T]) Slice() []T {
	return v.data
}

// All iterates over linear indices and elements.
func (v View[T]) All() iter.Seq2[int, T] {
	return seqForward(v.data)
}

// Stale reports whether the originating array has been reallocated or
// released since the view was issued.
func (v View[T]) Stale() bool {
	return v.gen == nil || v.gen.n != v.issued
}

// ReadOnly returns a read-only view over the same elements.
func (v View[T]) ReadOnly() ReadView[T] {
	return ReadView[T]{data: v.data, gen: v.gen, issued: v.issued}
}

// ReadView is a read-only View.
type ReadView[T Element] struct {
	data   []T
	gen    *generation
	issued uint64
}

// Len returns the number of elements in the view.
func (v ReadView[T]) Len() int {
	return len(v.data)
}

// At returns a copy of the element at linear index i.
func (v ReadView[T]) At(i int) T {
	return v.data[i]
}

// CopyTo copies the viewed elements into dst and returns the number copied.
func (v ReadView[T]) CopyTo(dst []T) int {
	return copy(dst, v.data)
}

// All iterates over linear indices and element values.
func (v ReadView[T]) All() iter.Seq2[int, T] {
	return seqForward(v.data)
}

// Stale reports whether the originating array has been reallocated or
// released since the view was issued.
func (v ReadView[T]) Stale() bool {
	return v.gen == nil || v.gen.n != v.issued
}
