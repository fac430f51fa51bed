package matfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
	"github.com/born-ml/matarray/internal/parallel"
)

// WriterOptions configures the behavior of Write.
type WriterOptions struct {
	Description string // Header text, truncated to DescriptionSize bytes; empty selects the MATLAB-style default
	Compress    bool   // Wrap every variable in a zlib miCOMPRESSED element
	Workers     int    // Goroutines encoding variables; 0 uses every CPU, 1 encodes sequentially
}

// DefaultWriterOptions returns options that produce compressed files with
// the standard header text.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{Compress: true}
}

// fileOrder is the byte order of written files.
var fileOrder = binary.LittleEndian

// Save writes vars to a new MAT-file at path.
func Save(path string, vars []*matvar.Handle, opts WriterOptions) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, vars, opts); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Write encodes vars as a little-endian MAT-file Level 5 stream.
func Write(w io.Writer, vars []*matvar.Handle, opts WriterOptions) error {
	if err := ValidateVariables(vars); err != nil {
		return err
	}

	if _, err := w.Write(header(opts.Description)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	elements, err := parallel.Map(len(vars), func(i int) ([]byte, error) {
		element := encodeMatrix(vars[i])
		if !opts.Compress {
			return element, nil
		}
		compressed, err := compress(element)
		if err != nil {
			return nil, fmt.Errorf("failed to compress variable %q: %w", vars[i].Name(), err)
		}
		return compressed, nil
	}, parallel.WithWorkers(opts.Workers))
	if err != nil {
		return err
	}

	for i, element := range elements {
		h := vars[i]
		if _, err := w.Write(element); err != nil {
			return fmt.Errorf("failed to write variable %q: %w", h.Name(), err)
		}
		Logger().Debug("wrote variable",
			zap.String("variable", h.Name()),
			zap.Stringer("dims", h.Dims()),
			zap.Stringer("type", h.Type()),
			zap.Int("bytes", len(element)))
	}
	return nil
}

// header returns the 128-byte file header.
func header(description string) []byte {
	if description == "" {
		description = fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: %s, Created on: %s by matarray",
			runtime.GOOS, time.Now().UTC().Format("Mon Jan _2 15:04:05 2006"))
	}
	if len(description) > DescriptionSize {
		description = description[:DescriptionSize]
	}

	b := make([]byte, HeaderSize)
	copy(b, description+strings.Repeat(" ", DescriptionSize-len(description)))
	// Bytes 116-123 hold the subsystem data offset, left zero.
	fileOrder.PutUint16(b[124:], FormatVersion)
	copy(b[126:], "IM")
	return b
}

// encodeMatrix returns the complete miMATRIX element for h.
func encodeMatrix(h *matvar.Handle) []byte {
	cls, storage, logical := classOf(h.Type())

	flags := uint32(cls)
	if logical {
		flags |= flagLogical
	}
	if h.IsComplex() {
		flags |= flagComplex
	}

	var body []byte
	body = appendElement(body, miUint32, fileOrder.AppendUint32(fileOrder.AppendUint32(nil, flags), 0), false)

	dims := h.Dims()
	raw := make([]byte, 0, 4*len(dims))
	for _, d := range dims {
		raw = fileOrder.AppendUint32(raw, uint32(int32(d))) //nolint:gosec // G115: checked by ValidateVariable
	}
	body = appendElement(body, miInt32, raw, false)
	body = appendElement(body, miInt8, []byte(h.Name()), true)

	n := h.NumElements()
	body = appendElement(body, storage, encodeData(h.Data(), h.Type(), storage, n), true)
	if h.IsComplex() {
		body = appendElement(body, storage, encodeData(h.Imag(), h.Type(), storage, n), true)
	}

	return appendElement(nil, miMatrix, body, false)
}

// encodeData converts n native elements of dt to the storage type in file order.
func encodeData(src []byte, dt matvar.DataType, storage dataType, n int) []byte {
	size := storage.size()
	out := make([]byte, n*size)
	if dt == matvar.Char {
		for i := 0; i < n; i++ {
			fileOrder.PutUint16(out[i*2:], uint16(src[i]))
		}
		return out
	}
	reorder(out, src[:n*size], size, native, fileOrder)
	return out
}

// appendElement appends a tagged data element to dst. Payloads of at most
// four bytes use the compact tag when compact is set.
func appendElement(dst []byte, t dataType, payload []byte, compact bool) []byte {
	n := len(payload)
	if compact && n > 0 && n <= 4 {
		dst = fileOrder.AppendUint32(dst, uint32(n)<<16|uint32(t)) //nolint:gosec // G115: n is at most 4
		dst = append(dst, payload...)
		return append(dst, make([]byte, 4-n)...)
	}
	dst = fileOrder.AppendUint32(dst, uint32(t))
	dst = fileOrder.AppendUint32(dst, uint32(n)) //nolint:gosec // G115: bounded by MaxElementCount
	dst = append(dst, payload...)
	return append(dst, make([]byte, padded(n)-n)...)
}

// compress wraps an element in an unpadded miCOMPRESSED element.
func compress(element []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(element); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, tagSize+buf.Len())
	out = fileOrder.AppendUint32(out, uint32(miCompressed))
	out = fileOrder.AppendUint32(out, uint32(buf.Len())) //nolint:gosec // G115: bounded by MaxDecompressedSize
	return append(out, buf.Bytes()...), nil
}
