package matfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
)

// Header is the decoded 128-byte file header.
type Header struct {
	Description string
	Version     uint16
	ByteOrder   binary.ByteOrder
}

// File holds the variables decoded from a MAT-file. The file owns one
// reference to every handle; Release drops them.
type File struct {
	Header Header
	vars   []*matvar.Handle
}

// Variables returns the decoded handles in file order.
func (f *File) Variables() []*matvar.Handle {
	return f.vars
}

// Names returns the variable names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.vars))
	for i, h := range f.vars {
		names[i] = h.Name()
	}
	return names
}

// Lookup returns the first variable named name.
func (f *File) Lookup(name string) (*matvar.Handle, error) {
	for _, h := range f.vars {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
}

// Release drops the file's reference to every variable. Handles shared
// with arrays stay alive until those arrays release them.
func (f *File) Release() {
	for _, h := range f.vars {
		h.Release()
	}
	f.vars = nil
}

// ReaderOptions configures the behavior of Read.
type ReaderOptions struct {
	ValidationLevel     ValidationLevel // Validation strictness level
	MaxDecompressedSize int64           // Limit for one miCOMPRESSED element, 0 selects MaxDecompressedSize
}

// Load reads the MAT-file at path with strict validation.
func Load(path string) (*File, error) {
	return LoadWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// LoadWithOptions reads the MAT-file at path.
func LoadWithOptions(path string, opts ReaderOptions) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return decode(data, opts)
}

// Read decodes a MAT-file from r with strict validation.
func Read(r io.Reader) (*File, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions decodes a MAT-file from r.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return decode(data, opts)
}

// decoder walks the data elements of one file.
type decoder struct {
	order binary.ByteOrder
	opts  ReaderOptions
	file  *File
}

func decode(data []byte, opts ReaderOptions) (*File, error) {
	if opts.MaxDecompressedSize <= 0 {
		opts.MaxDecompressedSize = MaxDecompressedSize
	}
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	d := &decoder{order: header.ByteOrder, opts: opts, file: &File{Header: header}}
	if err := d.elements(data[HeaderSize:], true); err != nil {
		d.file.Release()
		return nil, err
	}
	return d.file, nil
}

// parseHeader reads and checks the 128-byte header.
func parseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidHeader, len(data), HeaderSize)
	}

	var order binary.ByteOrder
	switch string(data[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return Header{}, fmt.Errorf("%w: endian indicator %q", ErrInvalidHeader, data[126:128])
	}

	version := order.Uint16(data[124:126])
	if version != FormatVersion {
		return Header{}, fmt.Errorf("%w: 0x%04x", ErrUnsupportedVersion, version)
	}

	return Header{
		Description: strings.TrimRight(string(data[:DescriptionSize]), " \x00"),
		Version:     version,
		ByteOrder:   order,
	}, nil
}

// tag is a decoded data element tag.
type tag struct {
	typ  dataType
	data []byte // Element payload, exactly the declared byte count
	next int    // Offset of the following element
}

// readTag decodes the element starting at b[pos:].
func (d *decoder) readTag(b []byte, pos int) (tag, error) {
	if len(b)-pos < tagSize {
		return tag{}, fmt.Errorf("%w: %d bytes left for an 8-byte tag", ErrTruncated, len(b)-pos)
	}

	first := d.order.Uint32(b[pos:])
	if n := int(first >> 16); n != 0 {
		if n > 4 {
			return tag{}, fmt.Errorf("%w: compact element claims %d bytes", ErrMalformed, n)
		}
		return tag{typ: dataType(first & 0xffff), data: b[pos+4 : pos+4+n], next: pos + tagSize}, nil
	}

	typ := dataType(first)
	n := int(d.order.Uint32(b[pos+4:]))
	start := pos + tagSize
	if n < 0 || n > len(b)-start {
		return tag{}, fmt.Errorf("%w: element of %d bytes, %d left", ErrTruncated, n, len(b)-start)
	}
	next := start + n
	if typ != miCompressed {
		next = min(start+padded(n), len(b))
	}
	return tag{typ: typ, data: b[start : start+n], next: next}, nil
}

// elements decodes every element in b. Only the top level may contain
// compressed elements.
func (d *decoder) elements(b []byte, topLevel bool) error {
	pos := 0
	for pos < len(b) {
		if allZero(b[pos:]) && len(b)-pos < tagSize {
			return nil // Trailing padding
		}
		t, err := d.readTag(b, pos)
		if err != nil {
			return err
		}
		pos = t.next

		switch t.typ {
		case miMatrix:
			if err := d.variable(t.data); err != nil {
				return err
			}
		case miCompressed:
			if !topLevel {
				return fmt.Errorf("%w: nested compressed element", ErrMalformed)
			}
			inflated, err := d.inflate(t.data)
			if err != nil {
				return err
			}
			if err := d.elements(inflated, false); err != nil {
				return err
			}
		default:
			Logger().Warn("skipping top-level element", zap.Uint32("type", uint32(t.typ)), zap.Int("bytes", len(t.data)))
		}
	}
	return nil
}

func (d *decoder) inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed element: %w", err)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(io.LimitReader(zr, d.opts.MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to inflate compressed element: %w", err)
	}
	if int64(len(out)) > d.opts.MaxDecompressedSize {
		return nil, fmt.Errorf("%w: compressed element inflates beyond %d bytes", ErrTooLarge, d.opts.MaxDecompressedSize)
	}
	return out, nil
}

// variable decodes one miMATRIX payload and appends it to the file. In
// lenient mode a malformed variable is logged and skipped.
func (d *decoder) variable(body []byte) error {
	if len(body) == 0 {
		return nil // Empty matrix placeholder
	}
	if len(d.file.vars) >= MaxVariableCount {
		return &ValidationError{Type: "too_many_variables", Details: fmt.Sprintf("max %d", MaxVariableCount)}
	}
	h, err := d.matrix(body)
	if err != nil {
		if d.opts.ValidationLevel == ValidationStrict || errors.Is(err, ErrTruncated) {
			return err
		}
		Logger().Warn("skipping malformed variable", zap.Error(err))
		return nil
	}
	d.file.vars = append(d.file.vars, h)
	return nil
}

// matrix decodes array flags, dimensions, name and data of one variable.
//
//nolint:gocyclo,cyclop // One branch per sub-element of the miMATRIX layout
func (d *decoder) matrix(body []byte) (*matvar.Handle, error) {
	flags, pos, err := d.subElement(body, 0, "array flags")
	if err != nil {
		return nil, err
	}
	if flags.typ != miUint32 || len(flags.data) < 8 {
		return nil, fmt.Errorf("%w: array flags of type %d and %d bytes", ErrMalformed, flags.typ, len(flags.data))
	}
	word := d.order.Uint32(flags.data)
	cls := class(word & classMask)
	isComplex := word&flagComplex != 0
	logical := word&flagLogical != 0

	dimsTag, pos, err := d.subElement(body, pos, "dimensions")
	if err != nil {
		return nil, err
	}
	if dimsTag.typ != miInt32 || len(dimsTag.data)%4 != 0 {
		return nil, fmt.Errorf("%w: dimensions of type %d and %d bytes", ErrMalformed, dimsTag.typ, len(dimsTag.data))
	}
	dims := make(matvar.Dims, len(dimsTag.data)/4)
	for i := range dims {
		dims[i] = int(int32(d.order.Uint32(dimsTag.data[i*4:]))) //nolint:gosec // G115: dimensions are stored as int32
	}
	if exceedsElementLimit(dims) {
		return nil, fmt.Errorf("%w: %s exceeds %d elements", ErrTooLarge, dims, MaxElementCount)
	}
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	nameTag, pos, err := d.subElement(body, pos, "name")
	if err != nil {
		return nil, err
	}
	name := string(nameTag.data)
	if len(name) > matvar.MaxNameLength {
		return nil, fmt.Errorf("%w: name of %d bytes", ErrMalformed, len(name))
	}

	dt := elementType(cls, logical)
	if dt == matvar.Unsupported {
		Logger().Debug("keeping placeholder for unsupported class",
			zap.String("variable", name), zap.Stringer("class", cls))
		return matvar.Allocate(matvar.Spec{
			Name: name,
			Dims: dims,
			Type: matvar.Unsupported,
			Kind: compositeKind(cls, dims.NumElements()),
		}, nil)
	}

	h, err := matvar.Allocate(matvar.Spec{
		Name:    name,
		Dims:    dims,
		Type:    dt,
		Kind:    matvar.Classify(dims, dt),
		Complex: isComplex,
	}, nil)
	if err != nil {
		return nil, err
	}

	n := dims.NumElements()
	re, pos, err := d.subElement(body, pos, "real part")
	if err != nil {
		h.Release()
		return nil, err
	}
	if err := d.fill(h.Data(), dt, re, n); err != nil {
		h.Release()
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	if isComplex {
		im, _, err := d.subElement(body, pos, "imaginary part")
		if err != nil {
			h.Release()
			return nil, err
		}
		if err := d.fill(h.Imag(), dt, im, n); err != nil {
			h.Release()
			return nil, fmt.Errorf("variable %q imaginary part: %w", name, err)
		}
	}
	return h, nil
}

func (d *decoder) subElement(body []byte, pos int, what string) (tag, int, error) {
	if pos >= len(body) {
		return tag{}, pos, fmt.Errorf("%w: missing %s", ErrMalformed, what)
	}
	t, err := d.readTag(body, pos)
	if err != nil {
		return tag{}, pos, fmt.Errorf("%s: %w", what, err)
	}
	return t, t.next, nil
}

func (d *decoder) fill(dst []byte, dt matvar.DataType, t tag, n int) error {
	if dt == matvar.Char {
		return decodeChars(dst, t.data, t.typ, d.order, n)
	}
	return decodeNumeric(dst, dt, t.data, t.typ, d.order, n)
}

// exceedsElementLimit reports whether the product of the non-negative dims
// is above MaxElementCount. The running product stops at the limit so it
// never overflows.
func exceedsElementLimit(dims matvar.Dims) bool {
	for _, d := range dims {
		if d <= 0 {
			return false // Empty or left for Validate to reject
		}
	}
	n := int64(1)
	for _, d := range dims {
		n *= int64(d)
		if n > MaxElementCount {
			return true
		}
	}
	return false
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
