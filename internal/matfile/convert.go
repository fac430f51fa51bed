package matfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/born-ml/matarray/internal/matvar"
)

// String returns the MATLAB name of the class.
func (c class) String() string {
	switch c {
	case mxCell:
		return "cell"
	case mxStruct:
		return "struct"
	case mxObject:
		return "object"
	case mxSparse:
		return "sparse"
	case mxFunction:
		return "function_handle"
	case mxOpaque:
		return "opaque"
	}
	if dt, ok := classTypes[c]; ok {
		return dt.String()
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// number is one stored value widened to the largest type of its family.
type number struct {
	f       float64
	i       int64
	u       uint64
	isFloat bool
	signed  bool
}

func (n number) float() float64 {
	switch {
	case n.isFloat:
		return n.f
	case n.signed:
		return float64(n.i)
	default:
		return float64(n.u)
	}
}

func (n number) int() int64 {
	switch {
	case n.isFloat:
		return int64(n.f)
	case n.signed:
		return n.i
	default:
		return int64(n.u) //nolint:gosec // G115: wrap-around matches a C cast
	}
}

func (n number) uint() uint64 {
	switch {
	case n.isFloat:
		return uint64(n.f)
	case n.signed:
		return uint64(n.i) //nolint:gosec // G115: wrap-around matches a C cast
	default:
		return n.u
	}
}

// readNumber reads one value of storage type t from b.
func readNumber(b []byte, t dataType, order binary.ByteOrder) number {
	switch t {
	case miInt8:
		return number{i: int64(int8(b[0])), signed: true}
	case miUint8, miUTF8:
		return number{u: uint64(b[0])}
	case miInt16:
		return number{i: int64(int16(order.Uint16(b))), signed: true}
	case miUint16, miUTF16:
		return number{u: uint64(order.Uint16(b))}
	case miInt32:
		return number{i: int64(int32(order.Uint32(b))), signed: true}
	case miUint32, miUTF32:
		return number{u: uint64(order.Uint32(b))}
	case miSingle:
		return number{f: float64(math.Float32frombits(order.Uint32(b))), isFloat: true}
	case miDouble:
		return number{f: math.Float64frombits(order.Uint64(b)), isFloat: true}
	case miInt64:
		return number{i: int64(order.Uint64(b)), signed: true} //nolint:gosec // G115: bit pattern reinterpretation
	case miUint64:
		return number{u: order.Uint64(b)}
	default:
		return number{}
	}
}

// putNumber writes v into b as element type dt in native byte order.
//
//nolint:gosec // G115: narrowing conversions follow C cast semantics
func putNumber(b []byte, dt matvar.DataType, v number) {
	switch dt {
	case matvar.Int8:
		b[0] = byte(int8(v.int()))
	case matvar.Uint8, matvar.Logical, matvar.Char:
		b[0] = byte(v.uint())
	case matvar.Int16:
		native.PutUint16(b, uint16(int16(v.int())))
	case matvar.Uint16:
		native.PutUint16(b, uint16(v.uint()))
	case matvar.Int32:
		native.PutUint32(b, uint32(int32(v.int())))
	case matvar.Uint32:
		native.PutUint32(b, uint32(v.uint()))
	case matvar.Int64:
		native.PutUint64(b, uint64(v.int()))
	case matvar.Uint64:
		native.PutUint64(b, v.uint())
	case matvar.Float32:
		native.PutUint32(b, math.Float32bits(float32(v.float())))
	case matvar.Float64:
		native.PutUint64(b, math.Float64bits(v.float()))
	}
}

// decodeNumeric fills dst (n elements of dt, native order) from src holding
// n values of storage type t in the file byte order. MATLAB may store a
// class in a narrower type, e.g. a double array as miUINT8.
func decodeNumeric(dst []byte, dt matvar.DataType, src []byte, t dataType, order binary.ByteOrder, n int) error {
	size := t.size()
	if size == 0 {
		return fmt.Errorf("%w: storage type %d is not numeric", ErrMalformed, t)
	}
	if len(src) < n*size {
		return fmt.Errorf("%w: %d values of %d bytes need %d bytes, got %d", ErrMalformed, n, size, n*size, len(src))
	}
	if t == nativeStorage(dt) {
		reorder(dst, src[:n*size], size, order, native)
		return nil
	}
	dsz := dt.Size()
	for i := 0; i < n; i++ {
		putNumber(dst[i*dsz:], dt, readNumber(src[i*size:], t, order))
	}
	return nil
}

// decodeChars fills dst with n single-byte characters decoded from src.
// Code points above 0xFF become '?'.
func decodeChars(dst, src []byte, t dataType, order binary.ByteOrder, n int) error {
	if t == miUTF8 && utf8.RuneCount(src) == n && len(src) != n {
		i := 0
		for _, r := range string(src) {
			dst[i] = latin1(r)
			i++
		}
		return nil
	}
	size := t.size()
	if size == 0 || t == miSingle || t == miDouble {
		return fmt.Errorf("%w: storage type %d cannot hold characters", ErrMalformed, t)
	}
	if len(src) < n*size {
		return fmt.Errorf("%w: %d characters of %d bytes need %d bytes, got %d", ErrMalformed, n, size, n*size, len(src))
	}
	for i := 0; i < n; i++ {
		v := readNumber(src[i*size:], t, order)
		dst[i] = latin1(rune(v.int()))
	}
	return nil
}

func latin1(r rune) byte {
	if r < 0 || r > 0xff {
		return '?'
	}
	return byte(r)
}

// reorder copies values of the given size from src to dst, swapping bytes
// when the orders differ.
func reorder(dst, src []byte, size int, from, to binary.ByteOrder) {
	if size == 1 || from == to {
		copy(dst, src)
		return
	}
	for i := 0; i+size <= len(src); i += size {
		for k := 0; k < size; k++ {
			dst[i+k] = src[i+size-1-k]
		}
	}
}
