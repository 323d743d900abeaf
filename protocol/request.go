package protocol

type Request interface {
	GetCommand() Command
}

type ReadRequest struct {
	Address uint32
	Width   uint8
}

func (r *ReadRequest) GetCommand() Command {
	return READ
}

type WriteRequest struct {
	Address uint32
	Width   uint8

	// Value holds the value zero extended into 32 bits. Only the low Width
	// bytes are sent.
	Value uint32
}

func (r *WriteRequest) GetCommand() Command {
	return WRITE
}

type WatchRequest struct {
	Address uint32
	Width   uint8
	Tag     SignTag
}

func (r *WatchRequest) GetCommand() Command {
	return WATCH
}

// DataType resolves the requested width and tag, falling back to the
// unsigned type of the same width for unsupported pairs.
func (r *WatchRequest) DataType() DataType {
	dt, err := FromWire(r.Width, r.Tag)
	if err != nil {
		return FallbackDataType(r.Width)
	}

	return dt
}

type ViewWatchesRequest struct{}

func (r *ViewWatchesRequest) GetCommand() Command {
	return VIEW_WATCHES
}

type UnwatchRequest struct {
	Address uint32
}

func (r *UnwatchRequest) GetCommand() Command {
	return UNWATCH
}

// NewWatchRequest builds a watch request for dt.
func NewWatchRequest(address uint32, dt DataType) *WatchRequest {
	width, tag := dt.Wire()
	return &WatchRequest{Address: address, Width: width, Tag: tag}
}

// NewWriteRequest builds a write request whose width comes from the value's
// type, never from its magnitude.
func NewWriteRequest(address uint32, v Value) *WriteRequest {
	return &WriteRequest{Address: address, Width: v.Width(), Value: v.Raw()}
}

var _ Request = (*ReadRequest)(nil)
var _ Request = (*WriteRequest)(nil)
var _ Request = (*WatchRequest)(nil)
var _ Request = (*ViewWatchesRequest)(nil)
var _ Request = (*UnwatchRequest)(nil)
