package protocol

import "fmt"

// Frame delimiters.
const (
	FrameStart byte = 0xFF
	FrameEnd   byte = 0xFE
)

type Command byte

const (
	READ         Command = 0x01
	WRITE        Command = 0x02
	WATCH        Command = 0x03
	VIEW_WATCHES Command = 0x04
	UNWATCH      Command = 0x05
)

func (c Command) String() string {
	switch c {
	case READ:
		return "READ"
	case WRITE:
		return "WRITE"
	case WATCH:
		return "WATCH"
	case VIEW_WATCHES:
		return "VIEW_WATCHES"
	case UNWATCH:
		return "UNWATCH"
	default:
		return fmt.Sprintf("Command(0x%02X)", byte(c))
	}
}

// SignTag tells the peer how to interpret a fixed width value.
type SignTag byte

const (
	TagSigned   SignTag = 0x01
	TagUnsigned SignTag = 0x02
	TagFloat    SignTag = 0x03
)

func (t SignTag) String() string {
	switch t {
	case TagSigned:
		return "signed"
	case TagUnsigned:
		return "unsigned"
	case TagFloat:
		return "float"
	default:
		return fmt.Sprintf("SignTag(0x%02X)", byte(t))
	}
}

// ValidWidth reports whether n is a width the protocol can carry.
func ValidWidth(n uint8) bool {
	return n == 1 || n == 2 || n == 4
}
