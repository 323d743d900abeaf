package protocol

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a typed value carried in a 32-bit container. Narrow values are
// zero extended; the accessors reinterpret the container according to Type.
type Value struct {
	Type DataType
	raw  uint32
}

func U8Value(v uint8) Value   { return Value{Type: U8, raw: uint32(v)} }
func U16Value(v uint16) Value { return Value{Type: U16, raw: uint32(v)} }
func U32Value(v uint32) Value { return Value{Type: U32, raw: v} }
func I8Value(v int8) Value    { return Value{Type: I8, raw: uint32(uint8(v))} }
func I16Value(v int16) Value  { return Value{Type: I16, raw: uint32(uint16(v))} }
func I32Value(v int32) Value  { return Value{Type: I32, raw: uint32(v)} }
func F32Value(v float32) Value {
	return Value{Type: F32, raw: math.Float32bits(v)}
}

// RawValue wraps a raw container, dropping any bits wider than dt.
func RawValue(dt DataType, raw uint32) Value {
	switch dt.Width() {
	case 1:
		raw &= 0xFF
	case 2:
		raw &= 0xFFFF
	}

	return Value{Type: dt, raw: raw}
}

// Raw returns the zero extended 32-bit container.
func (v Value) Raw() uint32 {
	return v.raw
}

// Width returns the wire width of the value's type.
func (v Value) Width() uint8 {
	return v.Type.Width()
}

// Uint returns the value as an unsigned integer. It is only meaningful for
// the unsigned types.
func (v Value) Uint() uint64 {
	return uint64(v.raw)
}

// Int returns the value sign extended from its width.
func (v Value) Int() int64 {
	switch v.Type.Width() {
	case 1:
		return int64(int8(v.raw))
	case 2:
		return int64(int16(v.raw))
	default:
		return int64(int32(v.raw))
	}
}

func (v Value) Float() float32 {
	return math.Float32frombits(v.raw)
}

// Interface returns the value as the Go type matching v.Type.
func (v Value) Interface() interface{} {
	switch v.Type {
	case U8:
		return uint8(v.raw)
	case U16:
		return uint16(v.raw)
	case I8:
		return int8(v.raw)
	case I16:
		return int16(v.raw)
	case I32:
		return int32(v.raw)
	case F32:
		return v.Float()
	default:
		return v.raw
	}
}

func (v Value) String() string {
	switch v.Type {
	case I8, I16, I32:
		return strconv.FormatInt(v.Int(), 10)
	case F32:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	default:
		return strconv.FormatUint(v.Uint(), 10)
	}
}

// ParseValue parses s as a value of type dt. Integers accept any base
// prefix understood by strconv (0x, 0o, 0b).
func ParseValue(dt DataType, s string) (Value, error) {
	bits := int(dt.Width()) * 8

	switch dt {
	case U8, U16, U32:
		n, err := strconv.ParseUint(s, 0, bits)
		if err != nil {
			return Value{}, fmt.Errorf("Failed to parse '%s' as %s: %w", s, dt, err)
		}
		return RawValue(dt, uint32(n)), nil

	case I8, I16, I32:
		n, err := strconv.ParseInt(s, 0, bits)
		if err != nil {
			return Value{}, fmt.Errorf("Failed to parse '%s' as %s: %w", s, dt, err)
		}
		return RawValue(dt, uint32(n)), nil

	case F32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, fmt.Errorf("Failed to parse '%s' as %s: %w", s, dt, err)
		}
		return F32Value(float32(f)), nil

	default:
		return Value{}, fmt.Errorf("Failed to parse '%s': %w", s, ErrUnknownDataType)
	}
}
