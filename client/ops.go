package client

import (
	"io"

	"github.com/luma/memwatch/protocol"
)

// The functions in this file are the protocol operations. Each one issues
// exactly one write, followed by at most one read, on a stream owned by the
// caller. They hold no state between calls and never retry; errors from the
// stream are returned as they are.

// Read reads width bytes at address and returns them zero extended.
func Read(rw io.ReadWriter, address uint32, width uint8) (uint32, error) {
	err := protocol.SendRequest(rw, &protocol.ReadRequest{Address: address, Width: width})
	if err != nil {
		return 0, err
	}

	return protocol.ReadRawValue(rw, width)
}

// ReadValue reads a value of type dt at address.
func ReadValue(rw io.ReadWriter, address uint32, dt protocol.DataType) (protocol.Value, error) {
	raw, err := Read(rw, address, dt.Width())
	if err != nil {
		return protocol.Value{}, err
	}

	return protocol.RawValue(dt, raw), nil
}

// Write writes the low width bytes of value at address. The peer does not
// acknowledge writes.
func Write(w io.Writer, address uint32, width uint8, value uint32) error {
	return protocol.SendRequest(w, &protocol.WriteRequest{Address: address, Width: width, Value: value})
}

// WriteValue writes v at address using the width of v's type.
func WriteValue(w io.Writer, address uint32, v protocol.Value) error {
	return protocol.SendRequest(w, protocol.NewWriteRequest(address, v))
}

// Watch asks the peer to track address as a value of type dt.
func Watch(w io.Writer, address uint32, dt protocol.DataType) error {
	return protocol.SendRequest(w, protocol.NewWatchRequest(address, dt))
}

// ViewWatches fetches the peer's current watch table. The result replaces
// whatever table the caller held before; on error it is nil.
func ViewWatches(rw io.ReadWriter) (protocol.Watches, error) {
	if err := protocol.SendRequest(rw, &protocol.ViewWatchesRequest{}); err != nil {
		return nil, err
	}

	return protocol.ReadWatches(rw)
}

// Unwatch asks the peer to stop tracking address.
func Unwatch(w io.Writer, address uint32) error {
	return protocol.SendRequest(w, &protocol.UnwatchRequest{Address: address})
}
