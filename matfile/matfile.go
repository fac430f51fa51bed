// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matfile reads and writes MATLAB Level 5 MAT-files.
//
// Numeric, logical and character variables load into handles that the
// array package can wrap. Cell, struct, object, sparse and function
// variables load as placeholders so the rest of the file stays usable.
//
// Example:
//
//	f, err := matfile.Load("data.mat")
//	if err != nil {
//	    return err
//	}
//	defer f.Release()
//
//	x, err := matfile.Vector[float64](f, "x")
//	if err != nil {
//	    return err // Only x failed; other variables are still available
//	}
//	defer x.Release()
package matfile

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/array"
	"github.com/born-ml/matarray/internal/matfile"
)

// Type aliases for public API

// File holds the variables of a decoded MAT-file.
type File = matfile.File

// Header is the decoded file header.
type Header = matfile.Header

// ReaderOptions configures decoding.
type ReaderOptions = matfile.ReaderOptions

// WriterOptions configures encoding.
type WriterOptions = matfile.WriterOptions

// ValidationLevel controls how malformed variables are handled on read.
type ValidationLevel = matfile.ValidationLevel

// Validation levels.
const (
	ValidationStrict  ValidationLevel = matfile.ValidationStrict
	ValidationLenient ValidationLevel = matfile.ValidationLenient
)

// ValidationError describes a variable that cannot be written.
type ValidationError = matfile.ValidationError

// Errors.
var (
	ErrInvalidHeader      = matfile.ErrInvalidHeader
	ErrUnsupportedVersion = matfile.ErrUnsupportedVersion
	ErrTruncated          = matfile.ErrTruncated
	ErrMalformed          = matfile.ErrMalformed
	ErrVariableNotFound   = matfile.ErrVariableNotFound
	ErrTooLarge           = matfile.ErrTooLarge
)

// Variable is anything backed by a handle, such as the array package types.
type Variable interface {
	Handle() *array.Handle
}

// DefaultWriterOptions returns options producing compressed files.
func DefaultWriterOptions() WriterOptions {
	return matfile.DefaultWriterOptions()
}

// Load reads the MAT-file at path.
func Load(path string) (*File, error) {
	return matfile.Load(path)
}

// LoadWithOptions reads the MAT-file at path with custom options.
func LoadWithOptions(path string, opts ReaderOptions) (*File, error) {
	return matfile.LoadWithOptions(path, opts)
}

// Read decodes a MAT-file from r.
func Read(r io.Reader) (*File, error) {
	return matfile.Read(r)
}

// ReadWithOptions decodes a MAT-file from r with custom options.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*File, error) {
	return matfile.ReadWithOptions(r, opts)
}

// Write encodes vars to w in order.
func Write(w io.Writer, opts WriterOptions, vars ...Variable) error {
	return matfile.Write(w, handles(vars), opts)
}

// Save writes vars to a new MAT-file at path.
//
// Example:
//
//	v, _ := array.NewVectorFrom("v", []float64{1, 2, 3})
//	s, _ := array.NewStringValue("label", "ramp")
//	err := matfile.Save("out.mat", matfile.DefaultWriterOptions(), v, s)
func Save(path string, opts WriterOptions, vars ...Variable) error {
	return matfile.Save(path, handles(vars), opts)
}

// SetLogger installs the logger used for codec diagnostics.
// Passing nil disables logging.
func SetLogger(l *zap.Logger) {
	matfile.SetLogger(l)
}

func handles(vars []Variable) []*array.Handle {
	out := make([]*array.Handle, len(vars))
	for i, v := range vars {
		out[i] = v.Handle()
	}
	return out
}

// Typed variable access. Each helper shares the handle with the returned
// array, so the array stays valid after File.Release.

// Vector returns variable name as a Vector[T].
func Vector[T array.Element](f *File, name string) (*array.Vector[T], error) {
	h, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}
	v, err := array.ShareVector[T](h)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q as vector: %w", name, err)
	}
	return v, nil
}

// MultiDimensionalArray returns variable name as a MultiDimensionalArray[T].
func MultiDimensionalArray[T array.Element](f *File, name string) (*array.MultiDimensionalArray[T], error) {
	h, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}
	a, err := array.ShareMultiDimensional[T](h)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q as array: %w", name, err)
	}
	return a, nil
}

// String returns variable name as a String.
func String(f *File, name string) (*array.String, error) {
	h, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}
	s, err := array.ShareString(h)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q as string: %w", name, err)
	}
	return s, nil
}
