package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/born-ml/matarray/array"
	"github.com/born-ml/matarray/matfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes listings, styled only when out is a terminal.
type printer struct {
	out    io.Writer
	styled bool
}

func newPrinter(out io.Writer) *printer {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
	}
	return &printer{out: out, styled: styled}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) list(path string, f *matfile.File) {
	fmt.Fprintln(p.out, p.style(titleStyle, path))
	fmt.Fprintln(p.out, p.style(dimStyle, f.Header.Description))

	width := 4
	for _, name := range f.Names() {
		width = max(width, len(name))
	}
	for _, h := range f.Variables() {
		typ := h.Type().String()
		if h.Type() == array.Unsupported {
			typ = h.Kind().String()
		}
		if h.IsComplex() {
			typ += " (complex)"
		}
		fmt.Fprintf(p.out, "  %s  %s  %s\n",
			p.style(nameStyle, fmt.Sprintf("%-*s", width, h.Name())),
			p.style(typeStyle, fmt.Sprintf("%-10s", typ)),
			h.Dims())
	}
}

func (p *printer) show(f *matfile.File, name string, limit int) error {
	h, err := f.Lookup(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s %s %s\n",
		p.style(nameStyle, h.Name()), p.style(typeStyle, h.Type().String()), h.Dims())

	switch h.Type() {
	case array.CharType:
		s, err := matfile.String(f, name)
		if err != nil {
			return err
		}
		defer s.Release()
		fmt.Fprintf(p.out, "%q\n", s.String())
		return nil
	case array.Int8:
		return showValues[int8](p, f, name, limit)
	case array.Uint8:
		return showValues[uint8](p, f, name, limit)
	case array.Int16:
		return showValues[int16](p, f, name, limit)
	case array.Uint16:
		return showValues[uint16](p, f, name, limit)
	case array.Int32:
		return showValues[int32](p, f, name, limit)
	case array.Uint32:
		return showValues[uint32](p, f, name, limit)
	case array.Int64:
		return showValues[int64](p, f, name, limit)
	case array.Uint64:
		return showValues[uint64](p, f, name, limit)
	case array.Float32:
		return showValues[float32](p, f, name, limit)
	case array.Float64:
		return showValues[float64](p, f, name, limit)
	default:
		fmt.Fprintln(p.out, p.style(dimStyle, fmt.Sprintf("<%s values are not displayable>", h.Kind())))
		return nil
	}
}

// showValues prints a rank-2 array as a grid and higher ranks as
// column-major index/value pairs.
func showValues[T array.Element](p *printer, f *matfile.File, name string, limit int) error {
	if h, _ := f.Lookup(name); h.Kind() == array.KindScalar {
		v, err := matfile.Vector[T](f, name)
		if err != nil {
			return err
		}
		defer v.Release()
		fmt.Fprintln(p.out, v.At(0))
		return nil
	}

	a, err := matfile.MultiDimensionalArray[T](f, name)
	if err != nil {
		return err
	}
	defer a.Release()

	dims := a.Dims()
	if len(dims) == 2 && a.NumElements() <= limit {
		for r := 0; r < dims[0]; r++ {
			cells := make([]string, dims[1])
			for c := range cells {
				cells[c] = fmt.Sprintf("%10v", a.At(r, c))
			}
			fmt.Fprintln(p.out, strings.Join(cells, " "))
		}
		return nil
	}

	index := make([]int, len(dims))
	for i, v := range a.All() {
		if i >= limit {
			fmt.Fprintln(p.out, p.style(dimStyle, fmt.Sprintf("... %d more", a.NumElements()-limit)))
			break
		}
		fmt.Fprintf(p.out, "  (%s) %v\n", formatIndex(index), v)
		advance(index, dims)
	}
	return nil
}

// advance steps a column-major subscript to the next element.
func advance(index []int, dims array.Dims) {
	for k := range index {
		index[k]++
		if index[k] < dims[k] {
			return
		}
		index[k] = 0
	}
}

func formatIndex(index []int) string {
	parts := make([]string, len(index))
	for i, v := range index {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
