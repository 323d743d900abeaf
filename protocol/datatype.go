package protocol

import (
	"fmt"
	"strings"
)

// DataType is the logical type of a watched or written value. The zero value
// is U32.
type DataType uint8

const (
	U32 DataType = iota
	U16
	U8
	I32
	I16
	I8
	F32
)

// DataTypes lists every supported data type.
var DataTypes = []DataType{U32, U16, U8, I32, I16, I8, F32}

func (dt DataType) String() string {
	switch dt {
	case U32:
		return "u32"
	case U16:
		return "u16"
	case U8:
		return "u8"
	case I32:
		return "i32"
	case I16:
		return "i16"
	case I8:
		return "i8"
	case F32:
		return "f32"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(dt))
	}
}

// ParseDataType parses the lower case names returned by DataType.String.
func ParseDataType(s string) (DataType, error) {
	for _, dt := range DataTypes {
		if strings.EqualFold(s, dt.String()) {
			return dt, nil
		}
	}

	return U32, fmt.Errorf("Failed to parse '%s': %w", s, ErrUnknownDataType)
}

// Wire returns the on-wire width and sign tag of dt.
func (dt DataType) Wire() (width uint8, tag SignTag) {
	switch dt {
	case U16:
		return 2, TagUnsigned
	case U8:
		return 1, TagUnsigned
	case I32:
		return 4, TagSigned
	case I16:
		return 2, TagSigned
	case I8:
		return 1, TagSigned
	case F32:
		return 4, TagFloat
	default:
		return 4, TagUnsigned
	}
}

// Width is the number of bytes a value of dt occupies on the wire.
func (dt DataType) Width() uint8 {
	width, _ := dt.Wire()
	return width
}

// FromWire maps a width and sign tag back to a DataType. Pairs outside the
// supported set return an error wrapping ErrUnsupportedType, or
// ErrInvalidByteSize when the width itself is invalid.
func FromWire(width uint8, tag SignTag) (DataType, error) {
	switch width {
	case 1:
		switch tag {
		case TagSigned:
			return I8, nil
		case TagUnsigned:
			return U8, nil
		}

	case 2:
		switch tag {
		case TagSigned:
			return I16, nil
		case TagUnsigned:
			return U16, nil
		}

	case 4:
		switch tag {
		case TagSigned:
			return I32, nil
		case TagUnsigned:
			return U32, nil
		case TagFloat:
			return F32, nil
		}

	default:
		return U32, &InvalidByteSizeError{Size: width}
	}

	return FallbackDataType(width), fmt.Errorf("width %d with %s tag: %w", width, tag, ErrUnsupportedType)
}

// FallbackDataType is the unsigned type of the given width. Decoders use it
// for entries whose sign tag does not fit their width.
//
// Older peers and clients typed every such entry as U32 whatever its width.
// Keeping the width means Value() still masks Raw correctly for 1 and 2 byte
// entries.
func FallbackDataType(width uint8) DataType {
	switch width {
	case 1:
		return U8
	case 2:
		return U16
	default:
		return U32
	}
}
