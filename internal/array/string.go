package array

import (
	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/matvar"
)

// DefaultStringName is the name given to strings created without one.
const DefaultStringName = "unnamed_string"

// String is a character vector used as text.
//
// Unlike other arrays, a String created from just a name uses the name as
// its content: NewString("abc") holds "abc".
type String struct {
	Vector[Char]
}

// NewString creates a string named name whose content is also name.
// An empty name creates an empty string named DefaultStringName.
func NewString(name string) (*String, error) {
	if name == "" {
		return NewStringValue(DefaultStringName, "")
	}
	return NewStringValue(name, name)
}

// NewStringValue creates a string named name holding text.
func NewStringValue(name, text string) (*String, error) {
	s := &String{}
	if err := s.init(orDefault(name, DefaultStringName), stringDims(len(text)), toChars(text)); err != nil {
		return nil, err
	}
	return s, nil
}

// AdoptString wraps a character handle without copying, taking over the
// caller's reference.
func AdoptString(h *matvar.Handle) (*String, error) {
	if err := CheckVector[Char](h); err != nil {
		return nil, err
	}
	s := &String{}
	s.adopt(h, owned)
	return s, nil
}

// ShareString wraps a character handle without copying while the caller
// keeps its own reference.
func ShareString(h *matvar.Handle) (*String, error) {
	if err := CheckVector[Char](h); err != nil {
		return nil, err
	}
	s := &String{}
	s.adopt(h.Retain(), shared)
	return s, nil
}

// StringFromHandle adopts h like AdoptString, falling back to an empty
// default string when h is incompatible.
func StringFromHandle(h *matvar.Handle) *String {
	s, err := AdoptString(h)
	if err == nil {
		return s
	}
	Logger().Warn("falling back to an empty string", zap.Error(err))
	s, err = NewString("")
	if err != nil {
		panic(err) // The default name is always valid
	}
	return s
}

// String returns the content as Go text.
func (s *String) String() string {
	b := make([]byte, len(s.data))
	for i, c := range s.data {
		b[i] = byte(c)
	}
	return string(b)
}

// Assign replaces the content with text, in place when the length is
// unchanged and by reallocation otherwise.
func (s *String) Assign(text string) error {
	if s.Released() {
		return ErrReleased
	}
	if len(text) == len(s.data) {
		for i := 0; i < len(text); i++ {
			s.data[i] = Char(text[i])
		}
		return nil
	}
	return s.reallocate(s.Name(), s.shape(len(text)), func(dst []Char) {
		copy(dst, toChars(text))
	})
}

// Clone returns a deep copy of the string with its own handle.
func (s *String) Clone() (*String, error) {
	v, err := s.Vector.Clone()
	if err != nil {
		return nil, err
	}
	return &String{Vector: *v}, nil
}

// stringDims lays text out as a MATLAB char row; empty text is 0x0.
func stringDims(n int) matvar.Dims {
	if n == 0 {
		return matvar.Dims{0, 0}
	}
	return matvar.Dims{1, n}
}

func toChars(text string) []Char {
	chars := make([]Char, len(text))
	for i := 0; i < len(text); i++ {
		chars[i] = Char(text[i])
	}
	return chars
}
