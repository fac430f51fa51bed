package matfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/matarray/internal/matvar"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

// nativeBytes encodes values of dt in host order.
func nativeBytes(t *testing.T, dt matvar.DataType, values ...float64) []byte {
	t.Helper()
	out := make([]byte, len(values)*dt.Size())
	for i, v := range values {
		putNumber(out[i*dt.Size():], dt, number{f: v, isFloat: true})
	}
	return out
}

func allocate(t *testing.T, name string, dims matvar.Dims, dt matvar.DataType, data []byte) *matvar.Handle {
	t.Helper()
	h, err := matvar.Allocate(matvar.Spec{Name: name, Dims: dims, Type: dt, Kind: matvar.Classify(dims, dt)}, data)
	require.NoError(t, err)
	return h
}

func roundTrip(t *testing.T, vars []*matvar.Handle, opts WriterOptions) *File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vars, opts))
	f, err := Read(&buf)
	require.NoError(t, err)
	t.Cleanup(f.Release)
	return f
}

func TestRoundTripEveryType(t *testing.T) {
	types := []matvar.DataType{
		matvar.Int8, matvar.Uint8, matvar.Int16, matvar.Uint16, matvar.Int32, matvar.Uint32,
		matvar.Int64, matvar.Uint64, matvar.Float32, matvar.Float64, matvar.Logical,
	}
	for _, compressed := range []bool{false, true} {
		for _, dt := range types {
			h := allocate(t, "v", matvar.Dims{2, 3}, dt, nativeBytes(t, dt, 0, 1, 2, 3, 4, 1))
			f := roundTrip(t, []*matvar.Handle{h}, WriterOptions{Compress: compressed})

			got, err := f.Lookup("v")
			require.NoError(t, err, dt)
			assert.Equal(t, dt, got.Type(), dt)
			assert.Equal(t, matvar.Dims{2, 3}, got.Dims(), dt)
			assert.Equal(t, matvar.KindArray, got.Kind(), dt)
			assert.Equal(t, h.Data(), got.Data(), "%s compressed=%v", dt, compressed)
			h.Release()
		}
	}
}

func TestRoundTripScalarVectorAndString(t *testing.T) {
	scalar := allocate(t, "pi", matvar.Dims{1, 1}, matvar.Float64, nativeBytes(t, matvar.Float64, math.Pi))
	vec := allocate(t, "col", matvar.Dims{3, 1}, matvar.Int16, nativeBytes(t, matvar.Int16, -1, 0, 1))
	str := allocate(t, "greeting", matvar.Dims{1, 5}, matvar.Char, []byte("hello"))
	empty := allocate(t, "e", matvar.Dims{0, 0}, matvar.Float64, nil)

	f := roundTrip(t, []*matvar.Handle{scalar, vec, str, empty}, DefaultWriterOptions())
	assert.Equal(t, []string{"pi", "col", "greeting", "e"}, f.Names())

	kinds := map[string]matvar.VariableKind{
		"pi": matvar.KindScalar, "col": matvar.KindVector, "greeting": matvar.KindString, "e": matvar.KindVector,
	}
	for name, want := range kinds {
		h, err := f.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, want, h.Kind(), name)
	}

	h, _ := f.Lookup("greeting")
	assert.Equal(t, "hello", string(h.Data()))
	h, _ = f.Lookup("pi")
	assert.Equal(t, math.Pi, math.Float64frombits(native.Uint64(h.Data())))
	h, _ = f.Lookup("e")
	assert.Equal(t, 0, h.NumElements())
}

func TestRoundTripComplex(t *testing.T) {
	h, err := matvar.AllocateComplex(matvar.Spec{
		Name: "z", Dims: matvar.Dims{1, 2}, Type: matvar.Float64, Kind: matvar.KindVector, Complex: true,
	}, nativeBytes(t, matvar.Float64, 1, 2), nativeBytes(t, matvar.Float64, -1, -2))
	require.NoError(t, err)

	f := roundTrip(t, []*matvar.Handle{h}, WriterOptions{})
	got, err := f.Lookup("z")
	require.NoError(t, err)
	assert.True(t, got.IsComplex())
	assert.Equal(t, h.Data(), got.Data())
	assert.Equal(t, h.Imag(), got.Imag())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, WriterOptions{Description: "test file"}))
	require.Equal(t, HeaderSize, buf.Len())
	assert.Equal(t, "IM", string(buf.Bytes()[126:]))

	f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "test file", f.Header.Description)
	assert.Equal(t, uint16(FormatVersion), f.Header.Version)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), f.Header.ByteOrder)
	assert.Empty(t, f.Variables())

	buf.Reset()
	require.NoError(t, Write(&buf, nil, WriterOptions{}))
	assert.True(t, strings.HasPrefix(buf.String(), "MATLAB 5.0 MAT-file"))
}

func TestReadErrors(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, 10)))
	assert.ErrorIs(t, err, ErrInvalidHeader)

	hdr := header("x")
	copy(hdr[126:], "XX")
	_, err = Read(bytes.NewReader(hdr))
	assert.ErrorIs(t, err, ErrInvalidHeader)

	hdr = header("x")
	fileOrder.PutUint16(hdr[124:], 0x0200)
	_, err = Read(bytes.NewReader(hdr))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	h := allocate(t, "v", matvar.Dims{1, 4}, matvar.Float64, nativeBytes(t, matvar.Float64, 1, 2, 3, 4))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*matvar.Handle{h}, WriterOptions{}))
	_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()-12]))
	assert.ErrorIs(t, err, ErrTruncated)

	f := roundTrip(t, []*matvar.Handle{h}, WriterOptions{})
	_, err = f.Lookup("missing")
	assert.ErrorIs(t, err, ErrVariableNotFound)
}

func TestDecompressionLimit(t *testing.T) {
	h := allocate(t, "big", matvar.Dims{1, 1024}, matvar.Float64, nil)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*matvar.Handle{h}, WriterOptions{Compress: true}))

	_, err := ReadWithOptions(bytes.NewReader(buf.Bytes()), ReaderOptions{MaxDecompressedSize: 512})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestWriteValidation(t *testing.T) {
	var buf bytes.Buffer
	var verr *ValidationError

	bad := allocate(t, "1bad", matvar.Dims{1, 1}, matvar.Float64, nil)
	require.ErrorAs(t, Write(&buf, []*matvar.Handle{bad}, WriterOptions{}), &verr)
	assert.Equal(t, "invalid_name", verr.Type)

	a := allocate(t, "a", matvar.Dims{1, 1}, matvar.Float64, nil)
	b := allocate(t, "a", matvar.Dims{1, 1}, matvar.Int8, nil)
	require.ErrorAs(t, Write(&buf, []*matvar.Handle{a, b}, WriterOptions{}), &verr)
	assert.Equal(t, "duplicate_name", verr.Type)

	cell, err := matvar.Allocate(matvar.Spec{Name: "c", Dims: matvar.Dims{1, 1}, Kind: matvar.KindCell}, nil)
	require.NoError(t, err)
	require.ErrorAs(t, Write(&buf, []*matvar.Handle{cell}, WriterOptions{}), &verr)
	assert.Equal(t, "unsupported_type", verr.Type)

	gone := allocate(t, "gone", matvar.Dims{1, 1}, matvar.Float64, nil)
	gone.Release()
	require.ErrorAs(t, Write(&buf, []*matvar.Handle{gone}, WriterOptions{}), &verr)
	assert.Equal(t, "released", verr.Type)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.mat")
	h := allocate(t, "m", matvar.Dims{2, 2, 2}, matvar.Uint16, nativeBytes(t, matvar.Uint16, 1, 2, 3, 4, 5, 6, 7, 8))
	logs := observeLogs(t)

	require.NoError(t, Save(path, []*matvar.Handle{h}, DefaultWriterOptions()))
	assert.Equal(t, 1, logs.FilterMessage("wrote variable").Len())

	f, err := Load(path)
	require.NoError(t, err)
	defer f.Release()
	got, err := f.Lookup("m")
	require.NoError(t, err)
	assert.Equal(t, matvar.Dims{2, 2, 2}, got.Dims())
	assert.Equal(t, h.Data(), got.Data())

	_, err = Load(filepath.Join(t.TempDir(), "missing.mat"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileReleaseKeepsRetainedHandles(t *testing.T) {
	h := allocate(t, "v", matvar.Dims{1, 2}, matvar.Int32, nativeBytes(t, matvar.Int32, 7, 8))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*matvar.Handle{h}, WriterOptions{}))
	f, err := Read(&buf)
	require.NoError(t, err)

	got, _ := f.Lookup("v")
	got.Retain()
	f.Release()
	assert.False(t, got.Released())
	assert.Empty(t, f.Variables())
	got.Release()
	assert.True(t, got.Released())
}

// builder assembles MAT-file bytes in an arbitrary byte order.
type builder struct {
	order binary.AppendByteOrder
	buf   []byte
}

func newBuilder(order binary.AppendByteOrder, indicator string) *builder {
	hdr := make([]byte, HeaderSize)
	copy(hdr, "built by test")
	order.AppendUint16(hdr[:124], FormatVersion)
	copy(hdr[126:], indicator)
	return &builder{order: order, buf: hdr}
}

func (b *builder) element(t dataType, payload []byte) []byte {
	out := b.order.AppendUint32(nil, uint32(t))
	out = b.order.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	return append(out, make([]byte, padded(len(payload))-len(payload))...)
}

func (b *builder) compact(t dataType, payload []byte) []byte {
	out := b.order.AppendUint32(nil, uint32(len(payload))<<16|uint32(t))
	out = append(out, payload...)
	return append(out, make([]byte, 4-len(payload))...)
}

func (b *builder) matrix(flags uint32, dims []int32, name string, parts ...[]byte) {
	var body []byte
	body = append(body, b.element(miUint32, b.order.AppendUint32(b.order.AppendUint32(nil, flags), 0))...)
	var rawDims []byte
	for _, d := range dims {
		rawDims = b.order.AppendUint32(rawDims, uint32(d))
	}
	body = append(body, b.element(miInt32, rawDims)...)
	body = append(body, b.element(miInt8, []byte(name))...)
	for _, p := range parts {
		body = append(body, p...)
	}
	b.buf = append(b.buf, b.element(miMatrix, body)...)
}

func TestReadBigEndian(t *testing.T) {
	b := newBuilder(binary.BigEndian, "MI")
	var doubles []byte
	for _, v := range []float64{1.5, -2, 3} {
		doubles = binary.BigEndian.AppendUint64(doubles, math.Float64bits(v))
	}
	b.matrix(uint32(mxDouble), []int32{1, 3}, "x", b.element(miDouble, doubles))

	var int32s []byte
	for _, v := range []int32{-5, 6} {
		int32s = binary.BigEndian.AppendUint32(int32s, uint32(v))
	}
	b.matrix(uint32(mxInt32), []int32{2, 1}, "y", b.element(miInt32, int32s))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), f.Header.ByteOrder)

	x, err := f.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, nativeBytes(t, matvar.Float64, 1.5, -2, 3), x.Data())

	y, err := f.Lookup("y")
	require.NoError(t, err)
	assert.Equal(t, nativeBytes(t, matvar.Int32, -5, 6), y.Data())
	assert.Equal(t, matvar.KindVector, y.Kind())
}

func TestReadNarrowStorage(t *testing.T) {
	// MATLAB stores small integral doubles in the narrowest type.
	b := newBuilder(binary.LittleEndian, "IM")
	b.matrix(uint32(mxDouble), []int32{1, 3}, "d", b.compact(miUint8, []byte{1, 2, 250}))
	b.matrix(uint32(mxInt16), []int32{1, 2}, "i", b.compact(miInt8, []byte{0xff, 0x7f}))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()

	d, _ := f.Lookup("d")
	assert.Equal(t, nativeBytes(t, matvar.Float64, 1, 2, 250), d.Data())
	i, _ := f.Lookup("i")
	assert.Equal(t, nativeBytes(t, matvar.Int16, -1, 127), i.Data())
}

func TestReadCharEncodings(t *testing.T) {
	b := newBuilder(binary.LittleEndian, "IM")
	b.matrix(uint32(mxChar), []int32{1, 3}, "u8", b.compact(miUTF8, []byte("abc")))
	b.matrix(uint32(mxChar), []int32{1, 2}, "u16", b.compact(miUint16, []byte{'h', 0, 'i', 0}))
	// U+00E9 encoded as two UTF-8 bytes.
	b.matrix(uint32(mxChar), []int32{1, 2}, "mb", b.compact(miUTF8, []byte{'c', 0xc3, 0xa9}))
	b.matrix(uint32(mxChar), []int32{1, 1}, "wide", b.compact(miUint16, []byte{0x3b, 0x04}))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()

	for name, want := range map[string]string{"u8": "abc", "u16": "hi", "mb": "c\xe9", "wide": "?"} {
		h, err := f.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, want, string(h.Data()), name)
		assert.Equal(t, matvar.Char, h.Type(), name)
	}
}

func TestReadLogicalFlag(t *testing.T) {
	b := newBuilder(binary.LittleEndian, "IM")
	b.matrix(uint32(mxUint8)|flagLogical, []int32{1, 3}, "mask", b.compact(miUint8, []byte{1, 0, 1}))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()
	h, _ := f.Lookup("mask")
	assert.Equal(t, matvar.Logical, h.Type())
	assert.Equal(t, []byte{1, 0, 1}, h.Data())
}

func TestReadUnsupportedPlaceholders(t *testing.T) {
	logs := observeLogs(t)
	b := newBuilder(binary.LittleEndian, "IM")
	b.matrix(uint32(mxCell), []int32{1, 2}, "c")
	b.matrix(uint32(mxStruct), []int32{1, 1}, "s")
	b.matrix(uint32(mxStruct), []int32{2, 1}, "sa")
	b.matrix(uint32(mxSparse), []int32{3, 3}, "sp")
	b.matrix(uint32(mxDouble), []int32{1, 1}, "after", b.element(miDouble, nativeBytes(t, matvar.Float64, 4)))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()

	want := map[string]matvar.VariableKind{
		"c": matvar.KindCell, "s": matvar.KindStruct, "sa": matvar.KindStructArray, "sp": matvar.KindUnsupported,
	}
	for name, kind := range want {
		h, err := f.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, kind, h.Kind(), name)
		assert.Equal(t, matvar.Unsupported, h.Type(), name)
	}
	after, err := f.Lookup("after")
	require.NoError(t, err)
	assert.Equal(t, matvar.KindScalar, after.Kind())
	assert.Equal(t, 4, logs.FilterMessage("keeping placeholder for unsupported class").Len())
}

func TestReadRejectsOversizedDims(t *testing.T) {
	tests := []struct {
		name string
		dims []int32
	}{
		{"product wraps negative", []int32{1 << 30, 1 << 30, 8}},
		{"product wraps to zero", []int32{1 << 16, 1 << 16, 1 << 16, 1 << 16}},
		{"just over the limit", []int32{MaxElementCount/2 + 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(binary.LittleEndian, "IM")
			b.matrix(uint32(mxInt8), tt.dims, "x", b.compact(miInt8, []byte{1}))

			var f *File
			var err error
			require.NotPanics(t, func() { f, err = Read(bytes.NewReader(b.buf)) })
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrTooLarge)
		})
	}
}

func TestReadAcceptsEmptyDimsWithLargeExtent(t *testing.T) {
	b := newBuilder(binary.LittleEndian, "IM")
	b.matrix(uint32(mxDouble), []int32{1 << 30, 1 << 30, 0}, "e", b.element(miDouble, nil))

	f, err := Read(bytes.NewReader(b.buf))
	require.NoError(t, err)
	defer f.Release()
	h, err := f.Lookup("e")
	require.NoError(t, err)
	assert.Equal(t, 0, h.NumElements())
}

func TestLenientSkipsMalformedVariable(t *testing.T) {
	b := newBuilder(binary.LittleEndian, "IM")
	// Three declared elements but only one stored value.
	b.matrix(uint32(mxDouble), []int32{1, 3}, "bad", b.element(miDouble, nativeBytes(t, matvar.Float64, 1)))
	b.matrix(uint32(mxDouble), []int32{1, 1}, "good", b.element(miDouble, nativeBytes(t, matvar.Float64, 2)))

	_, err := Read(bytes.NewReader(b.buf))
	assert.ErrorIs(t, err, ErrMalformed)

	logs := observeLogs(t)
	f, err := ReadWithOptions(bytes.NewReader(b.buf), ReaderOptions{ValidationLevel: ValidationLenient})
	require.NoError(t, err)
	defer f.Release()
	assert.Equal(t, []string{"good"}, f.Names())
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed variable").Len())
}

func TestParallelEncodingMatchesSequential(t *testing.T) {
	var vars []*matvar.Handle
	for i := range 12 {
		name := string(rune('a'+i)) + "var"
		vars = append(vars, allocate(t, name, matvar.Dims{4, 4}, matvar.Float64,
			nativeBytes(t, matvar.Float64, float64(i), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)))
	}

	encode := func(workers int) []byte {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, vars, WriterOptions{Description: "fixed", Compress: true, Workers: workers}))
		return buf.Bytes()
	}
	assert.Equal(t, encode(1), encode(4))
}
