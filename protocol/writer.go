package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// reservedViewWatches is the always-zero payload of a VIEW_WATCHES request.
var reservedViewWatches = []byte{0x00, 0x00, 0x00, 0x00}

// EncodeRequest renders req as a complete frame.
func EncodeRequest(req Request) ([]byte, error) {
	b := make([]byte, 0, 16)
	b = append(b, FrameStart, byte(req.GetCommand()))

	switch r := req.(type) {
	case *ReadRequest:
		if !ValidWidth(r.Width) {
			return nil, &InvalidByteSizeError{Size: r.Width}
		}
		b = appendUint32(b, r.Address)
		b = append(b, r.Width)

	case *WriteRequest:
		if !ValidWidth(r.Width) {
			return nil, &InvalidByteSizeError{Size: r.Width}
		}
		b = appendUint32(b, r.Address)
		b = append(b, r.Width)
		b = AppendValue(b, r.Width, r.Value)

	case *WatchRequest:
		if !ValidWidth(r.Width) {
			return nil, &InvalidByteSizeError{Size: r.Width}
		}
		b = appendUint32(b, r.Address)
		b = append(b, r.Width, byte(r.Tag))

	case *ViewWatchesRequest:
		b = append(b, reservedViewWatches...)

	case *UnwatchRequest:
		b = appendUint32(b, r.Address)

	default:
		return nil, fmt.Errorf("Failed to encode %T: %w", req, ErrUnknownCommand)
	}

	return append(b, FrameEnd), nil
}

// SendRequest encodes req and writes the frame to w in a single Write.
func SendRequest(w io.Writer, req Request) error {
	b, err := EncodeRequest(req)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// WriteRawValue writes the undelimited reply to a READ request.
func WriteRawValue(w io.Writer, width uint8, value uint32) error {
	if !ValidWidth(width) {
		return &InvalidByteSizeError{Size: width}
	}

	_, err := w.Write(AppendValue(nil, width, value))
	return err
}

// WriteWatches writes a VIEW_WATCHES response frame listing watches in order.
func WriteWatches(w io.Writer, watches Watches) error {
	b := make([]byte, 0, 7+len(watches)*10)
	b = append(b, FrameStart, byte(VIEW_WATCHES))
	b = appendUint32(b, uint32(len(watches)))

	for _, watch := range watches {
		if !ValidWidth(watch.Width) {
			return &InvalidByteSizeError{Size: watch.Width}
		}

		b = appendUint32(b, watch.Address)
		b = append(b, watch.Width, byte(watch.SignTag))
		b = AppendValue(b, watch.Width, watch.Raw)
	}

	b = append(b, FrameEnd)

	_, err := w.Write(b)
	return err
}

// AppendValue appends the low width bytes of value in big endian order.
// width must already be valid.
func AppendValue(b []byte, width uint8, value uint32) []byte {
	switch width {
	case 1:
		return append(b, byte(value))
	case 2:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(value))
		return append(b, buf[:]...)
	default:
		return appendUint32(b, value)
	}
}

func appendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}
