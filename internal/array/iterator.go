package array

import "iter"

// Iterator walks an array buffer in linear (column-major) order.
//
// An Iterator starts positioned before its first element; call Next before
// reading. Prev moves the other way. Reverse returns an iterator walking in
// the opposite direction from the same position.
//
// Iterators are invalidated by any reallocating operation on the source
// array (Resize, SetName, differing-length assignment, Release). This is
// not detected.
//
// Example:
//
//	for it := v.Iterator(); it.Next(); {
//	    fmt.Println(it.Index(), it.Value())
//	}
type Iterator[T Element] struct {
	data []T
	pos  int // Position in data; -1 and len(data) are the two ends
	step int // +1 forward, -1 reverse
}

func newIterator[T Element](data []T) *Iterator[T] {
	return &Iterator[T]{data: data, pos: -1, step: 1}
}

func newReverseIterator[T Element](data []T) *Iterator[T] {
	return &Iterator[T]{data: data, pos: len(data), step: -1}
}

// Next advances in the iteration direction and reports whether an element
// is available.
func (it *Iterator[T]) Next() bool {
	return it.move(it.step)
}

// Prev moves against the iteration direction and reports whether an element
// is available.
func (it *Iterator[T]) Prev() bool {
	return it.move(-it.step)
}

func (it *Iterator[T]) move(delta int) bool {
	next := it.pos + delta
	if next < -1 {
		next = -1
	}
	if next > len(it.data) {
		next = len(it.data)
	}
	it.pos = next
	return it.Valid()
}

// Valid reports whether the iterator points at an element.
func (it *Iterator[T]) Valid() bool {
	return it.pos >= 0 && it.pos < len(it.data)
}

// Index returns the linear index of the current element.
func (it *Iterator[T]) Index() int {
	return it.pos
}

// Value returns a copy of the current element.
func (it *Iterator[T]) Value() T {
	return it.data[it.pos]
}

// Ref returns a live reference to the current element.
func (it *Iterator[T]) Ref() *T {
	return &it.data[it.pos]
}

// Reverse returns an iterator at the same position walking the other way.
func (it *Iterator[T]) Reverse() *Iterator[T] {
	return &Iterator[T]{data: it.data, pos: it.pos, step: -it.step}
}

// Reset moves the iterator back before its first element.
func (it *Iterator[T]) Reset() {
	if it.step > 0 {
		it.pos = -1
	} else {
		it.pos = len(it.data)
	}
}

func seqForward[T Element](data []T) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range data {
			if !yield(i, v) {
				return
			}
		}
	}
}

func seqBackward[T Element](data []T) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := len(data) - 1; i >= 0; i-- {
			if !yield(i, data[i]) {
				return
			}
		}
	}
}

func seqRefs[T Element](data []T) iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range data {
			if !yield(i, &data[i]) {
				return
			}
		}
	}
}
