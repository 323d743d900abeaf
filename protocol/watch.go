package protocol

// Watch is one entry of a VIEW_WATCHES response.
type Watch struct {
	Address uint32
	Width   uint8

	// Raw is the last known value zero extended into 32 bits. Use Value to
	// reinterpret it.
	Raw uint32

	DataType DataType

	// SignTag is the tag as received. It disagrees with DataType only when
	// the peer reported a pair we don't support.
	SignTag SignTag
}

// NewWatch builds a watch entry for dt.
func NewWatch(address uint32, dt DataType, raw uint32) Watch {
	width, tag := dt.Wire()
	return Watch{
		Address:  address,
		Width:    width,
		Raw:      RawValue(dt, raw).Raw(),
		DataType: dt,
		SignTag:  tag,
	}
}

func (w Watch) Value() Value {
	return RawValue(w.DataType, w.Raw)
}

// Watches is the watch table as of the latest VIEW_WATCHES response. It is
// replaced wholesale on every refresh and never merged.
type Watches []Watch

// Find returns the first watch on address.
func (ws Watches) Find(address uint32) (Watch, bool) {
	for _, w := range ws {
		if w.Address == address {
			return w, true
		}
	}

	return Watch{}, false
}
