package matvar

import (
	"fmt"
	"math"
)

// Dims represents the dimensions of a variable in column-major order.
// A valid Dims has at least two entries, all non-negative.
type Dims []int

// NumElements returns the total number of elements described by the
// dimensions. Dims with fewer than two entries describe no elements.
func (d Dims) NumElements() int {
	if len(d) == 0 {
		return 0
	}
	n := 1
	for _, dim := range d {
		n *= dim
	}
	return n
}

// Validate checks if the dimensions are valid (rank >= 2, all entries >= 0)
// and that their product fits in an int.
func (d Dims) Validate() error {
	if len(d) < 2 {
		return fmt.Errorf("rank %d is below the minimum of 2", len(d))
	}
	empty := false
	for i, dim := range d {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
		empty = empty || dim == 0
	}
	if empty {
		return nil
	}
	n := 1
	for _, dim := range d {
		if n > math.MaxInt/dim {
			return fmt.Errorf("element count of %s overflows int", d)
		}
		n *= dim
	}
	return nil
}

// Equal checks if two dimension vectors are equal.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the dimensions.
func (d Dims) Clone() Dims {
	clone := make(Dims, len(d))
	copy(clone, d)
	return clone
}

// Strides calculates column-major strides for the dimensions.
// The first dimension varies fastest: stride[0] = 1 and
// stride[k] = stride[k-1] * d[k-1].
func (d Dims) Strides() []int {
	strides := make([]int, len(d))
	if len(d) == 0 {
		return strides
	}

	strides[0] = 1
	for k := 1; k < len(d); k++ {
		strides[k] = strides[k-1] * d[k-1]
	}
	return strides
}

// Offset returns the linear column-major offset of a multi-index.
// The index must have one entry per dimension; entries are not range checked.
func (d Dims) Offset(index []int) int {
	offset := 0
	stride := 1
	for k, idx := range index {
		offset += idx * stride
		stride *= d[k]
	}
	return offset
}

// String formats the dimensions MATLAB style, e.g. "2x3x4".
func (d Dims) String() string {
	if len(d) == 0 {
		return "[]"
	}
	s := fmt.Sprint(d[0])
	for _, dim := range d[1:] {
		s += fmt.Sprintf("x%d", dim)
	}
	return s
}
