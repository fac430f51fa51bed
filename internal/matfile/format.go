package matfile

import (
	"encoding/binary"

	"github.com/born-ml/matarray/internal/matvar"
)

// Format constants.
const (
	HeaderSize      = 128
	DescriptionSize = 116
	FormatVersion   = 0x0100
	tagSize         = 8
	alignment       = 8
)

// dataType is the type field of a data element tag.
type dataType uint32

// Data element types.
const (
	miInt8       dataType = 1
	miUint8      dataType = 2
	miInt16      dataType = 3
	miUint16     dataType = 4
	miInt32      dataType = 5
	miUint32     dataType = 6
	miSingle     dataType = 7
	miDouble     dataType = 9
	miInt64      dataType = 12
	miUint64     dataType = 13
	miMatrix     dataType = 14
	miCompressed dataType = 15
	miUTF8       dataType = 16
	miUTF16      dataType = 17
	miUTF32      dataType = 18
)

// size returns the byte size of one stored value, or 0 for container types.
func (t dataType) size() int {
	switch t {
	case miInt8, miUint8, miUTF8:
		return 1
	case miInt16, miUint16, miUTF16:
		return 2
	case miInt32, miUint32, miSingle, miUTF32:
		return 4
	case miDouble, miInt64, miUint64:
		return 8
	default:
		return 0
	}
}

// class is the MATLAB array class stored in the array flags.
type class uint8

// Array classes.
const (
	mxCell     class = 1
	mxStruct   class = 2
	mxObject   class = 3
	mxChar     class = 4
	mxSparse   class = 5
	mxDouble   class = 6
	mxSingle   class = 7
	mxInt8     class = 8
	mxUint8    class = 9
	mxInt16    class = 10
	mxUint16   class = 11
	mxInt32    class = 12
	mxUint32   class = 13
	mxInt64    class = 14
	mxUint64   class = 15
	mxFunction class = 16
	mxOpaque   class = 17
)

// Array flag bits.
const (
	flagComplex uint32 = 0x0800
	flagGlobal  uint32 = 0x0400
	flagLogical uint32 = 0x0200
	classMask   uint32 = 0x00ff
)

// classTypes maps numeric and char classes to element types.
var classTypes = map[class]matvar.DataType{
	mxChar:   matvar.Char,
	mxDouble: matvar.Float64,
	mxSingle: matvar.Float32,
	mxInt8:   matvar.Int8,
	mxUint8:  matvar.Uint8,
	mxInt16:  matvar.Int16,
	mxUint16: matvar.Uint16,
	mxInt32:  matvar.Int32,
	mxUint32: matvar.Uint32,
	mxInt64:  matvar.Int64,
	mxUint64: matvar.Uint64,
}

// elementType returns the element type for a class, or Unsupported for
// composite classes. Logical arrays are stored as uint8 with the logical flag.
func elementType(c class, logical bool) matvar.DataType {
	if logical {
		return matvar.Logical
	}
	if dt, ok := classTypes[c]; ok {
		return dt
	}
	return matvar.Unsupported
}

// compositeKind returns the placeholder kind for a class without element data.
func compositeKind(c class, numel int) matvar.VariableKind {
	switch c {
	case mxCell:
		return matvar.KindCell
	case mxStruct:
		if numel == 1 {
			return matvar.KindStruct
		}
		return matvar.KindStructArray
	default:
		return matvar.KindUnsupported
	}
}

// classOf returns the class and storage type used to write dt.
// Char is written as UTF-16 code units, logical as uint8 with the logical flag.
func classOf(dt matvar.DataType) (c class, storage dataType, logical bool) {
	switch dt {
	case matvar.Char:
		return mxChar, miUint16, false
	case matvar.Logical:
		return mxUint8, miUint8, true
	case matvar.Float64:
		return mxDouble, miDouble, false
	case matvar.Float32:
		return mxSingle, miSingle, false
	case matvar.Int8:
		return mxInt8, miInt8, false
	case matvar.Uint8:
		return mxUint8, miUint8, false
	case matvar.Int16:
		return mxInt16, miInt16, false
	case matvar.Uint16:
		return mxUint16, miUint16, false
	case matvar.Int32:
		return mxInt32, miInt32, false
	case matvar.Uint32:
		return mxUint32, miUint32, false
	case matvar.Int64:
		return mxInt64, miInt64, false
	case matvar.Uint64:
		return mxUint64, miUint64, false
	default:
		return 0, 0, false
	}
}

// nativeStorage returns the storage type whose layout equals dt's.
func nativeStorage(dt matvar.DataType) dataType {
	if dt == matvar.Char {
		return miUint8
	}
	_, storage, _ := classOf(dt)
	return storage
}

// native is the byte order of the host, used for handle buffers.
var native = nativeOrder()

func nativeOrder() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// padded rounds n up to the element alignment.
func padded(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
