// Package matfile reads and writes MATLAB Level 5 MAT-files.
//
// A MAT-file is a 128-byte header followed by a sequence of tagged data
// elements:
//
//	Header:
//	  [116 bytes: descriptive text, space padded]
//	  [8 bytes:   subsystem data offset]
//	  [2 bytes:   version 0x0100]
//	  [2 bytes:   endian indicator "IM" (little) or "MI" (big)]
//	Element:
//	  [4 bytes: data type] [4 bytes: byte count] [data, padded to 8 bytes]
//	  or, for at most 4 bytes of data, the compact form
//	  [2 bytes: byte count | 2 bytes: data type] [4 bytes: data]
//
// Each variable is a miMATRIX element (array flags, dimensions, name, real
// part and optional imaginary part), optionally wrapped in a zlib
// miCOMPRESSED element.
//
// Numeric and character variables are decoded into matvar handles. Cells,
// structs, objects, sparse matrices and function handles are kept as
// placeholder handles with an Unsupported element type so that callers can
// list them while adoption into a typed array fails for that variable only.
//
// Example usage:
//
//	f, err := matfile.Load("data.mat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//	h, err := f.Lookup("x")
//
// Files in the HDF5-based v7.3 format are rejected with ErrUnsupportedVersion.
package matfile
