package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

const maxWatchesHint = 64

// The readers below never consume more than the frame they parse. Don't wrap
// r in a bufio.Reader.

// ReadRawValue reads the undelimited reply to a READ request: width bytes,
// big endian, zero extended into 32 bits.
func ReadRawValue(r io.Reader, width uint8) (uint32, error) {
	if !ValidWidth(width) {
		return 0, &InvalidByteSizeError{Size: width}
	}

	var buf [4]byte
	b := buf[:width]
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, err
	}

	return decodeValue(b), nil
}

// ReadWatches parses a VIEW_WATCHES response. On any error no partial result
// is returned and the stream must be treated as desynchronized.
func ReadWatches(r io.Reader) (Watches, error) {
	if err := expectByte(r, FrameStart); err != nil {
		return nil, err
	}

	if err := expectByte(r, byte(VIEW_WATCHES)); err != nil {
		return nil, err
	}

	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	// count comes off the wire, so don't trust it for preallocation. Clamp
	// before converting, int may be 32 bits.
	hint := maxWatchesHint
	if count < maxWatchesHint {
		hint = int(count)
	}
	watches := make(Watches, 0, hint)

	for i := uint32(0); i < count; i++ {
		var head [6]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}

		watch := Watch{
			Address: binary.BigEndian.Uint32(head[0:4]),
			Width:   head[4],
			SignTag: SignTag(head[5]),
		}

		if watch.Raw, err = ReadRawValue(r, watch.Width); err != nil {
			return nil, err
		}

		watch.DataType, err = FromWire(watch.Width, watch.SignTag)
		if err != nil {
			// Unsupported tag for a valid width, keep the entry as unsigned
			watch.DataType = FallbackDataType(watch.Width)
		}

		watches = append(watches, watch)
	}

	if err := expectByte(r, FrameEnd); err != nil {
		return nil, err
	}

	return watches, nil
}

// ParseRequest reads one request frame. It is the peer side of SendRequest.
func ParseRequest(r io.Reader) (req Request, err error) {
	if err := expectByte(r, FrameStart); err != nil {
		return nil, err
	}

	cmd, err := readByte(r)
	if err != nil {
		return nil, err
	}

	switch Command(cmd) {
	case READ:
		var head [5]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}
		if !ValidWidth(head[4]) {
			return nil, &InvalidByteSizeError{Size: head[4]}
		}
		req = &ReadRequest{Address: binary.BigEndian.Uint32(head[0:4]), Width: head[4]}

	case WRITE:
		var head [5]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}
		w := &WriteRequest{Address: binary.BigEndian.Uint32(head[0:4]), Width: head[4]}
		if w.Value, err = ReadRawValue(r, w.Width); err != nil {
			return nil, err
		}
		req = w

	case WATCH:
		var head [6]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}
		if !ValidWidth(head[4]) {
			return nil, &InvalidByteSizeError{Size: head[4]}
		}
		req = &WatchRequest{
			Address: binary.BigEndian.Uint32(head[0:4]),
			Width:   head[4],
			Tag:     SignTag(head[5]),
		}

	case VIEW_WATCHES:
		// Reserved field, ignored
		if _, err := readUint32(r); err != nil {
			return nil, err
		}
		req = &ViewWatchesRequest{}

	case UNWATCH:
		address, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		req = &UnwatchRequest{Address: address}

	default:
		return nil, fmt.Errorf("Failed to parse command 0x%02X: %w", cmd, ErrUnknownCommand)
	}

	if err := expectByte(r, FrameEnd); err != nil {
		return nil, err
	}

	return req, nil
}

func expectByte(r io.Reader, expected byte) error {
	got, err := readByte(r)
	if err != nil {
		return err
	}

	if got != expected {
		return &InvalidReturnByteError{Got: got, Expected: expected}
	}

	return nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}

func decodeValue(b []byte) uint32 {
	switch len(b) {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(binary.BigEndian.Uint16(b))
	default:
		return binary.BigEndian.Uint32(b)
	}
}
