//go:build matarraydebug

package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matarray/internal/matvar"
)

func TestDebugChecksPanicOnBadIndex(t *testing.T) {
	a, err := NewMultiDimensionalArraySized[float64]("m", matvar.Dims{2, 3})
	require.NoError(t, err)

	assert.Panics(t, func() { a.At(2, 0) }, "row out of range")
	assert.Panics(t, func() { a.At(0, 3) }, "column out of range")
	assert.Panics(t, func() { a.At(0) }, "too few indices")
	assert.Panics(t, func() { a.At(0, 0, 0) }, "too many indices")
	assert.Panics(t, func() { a.Set(1, -1, 0) }, "negative index")
	assert.NotPanics(t, func() { a.At(1, 2) })

	v, err := NewVectorFrom("v", []int32{1, 2, 3})
	require.NoError(t, err)

	assert.Panics(t, func() { v.At(-1) })
	assert.Panics(t, func() { v.At(3) })
	assert.Panics(t, func() { v.Set(3, 0) })
	assert.NotPanics(t, func() { v.At(2) })
}
