package fakepeer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/luma/memwatch/protocol"
)

var ErrInvalidSnapshot = errors.New("Memory snapshot is not valid JSON")

// Memory is the peer side state: a sparse byte addressed memory plus the
// ordered set of watches. Unwritten bytes read as zero.
type Memory struct {
	mu      sync.Mutex
	bytes   map[uint32]byte
	watches []watch
}

type watch struct {
	address  uint32
	dataType protocol.DataType
}

func NewMemory() *Memory {
	return &Memory{
		bytes: make(map[uint32]byte),
	}
}

// Read returns width bytes at address, big endian, zero extended.
func (m *Memory) Read(address uint32, width uint8) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.read(address, width)
}

func (m *Memory) read(address uint32, width uint8) (value uint32) {
	for i := uint32(0); i < uint32(width); i++ {
		value = value<<8 | uint32(m.bytes[address+i])
	}

	return value
}

// Write stores the low width bytes of value at address, big endian.
func (m *Memory) Write(address uint32, width uint8, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := int(width) - 1; i >= 0; i-- {
		m.bytes[address+uint32(i)] = byte(value)
		value >>= 8
	}
}

// Watch starts watching address. Watching an address twice replaces its
// type but keeps its position.
func (m *Memory) Watch(address uint32, dt protocol.DataType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.watches {
		if m.watches[i].address == address {
			m.watches[i].dataType = dt
			return
		}
	}

	m.watches = append(m.watches, watch{address: address, dataType: dt})
}

func (m *Memory) Unwatch(address uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.watches {
		if m.watches[i].address == address {
			m.watches = append(m.watches[:i], m.watches[i+1:]...)
			return
		}
	}
}

// Watches returns every watch with its current value.
func (m *Memory) Watches() protocol.Watches {
	m.mu.Lock()
	defer m.mu.Unlock()

	watches := make(protocol.Watches, 0, len(m.watches))
	for _, w := range m.watches {
		watches = append(watches, protocol.NewWatch(w.address, w.dataType, m.read(w.address, w.dataType.Width())))
	}

	return watches
}

// Restore seeds memory from a JSON object mapping hex addresses to hex byte
// strings, e.g. {"0x00ECC430": "00000002"}.
func (m *Memory) Restore(values []byte) (err error) {
	if !gjson.ValidBytes(values) {
		return ErrInvalidSnapshot
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	gjson.ParseBytes(values).ForEach(func(key, value gjson.Result) bool {
		var address uint64
		address, err = strconv.ParseUint(key.String(), 0, 32)
		if err != nil {
			err = fmt.Errorf("Failed to restore address '%s': %w", key.String(), err)
			return false
		}

		var data []byte
		data, err = hex.DecodeString(value.String())
		if err != nil {
			err = fmt.Errorf("Failed to restore value at '%s': %w", key.String(), err)
			return false
		}

		for i, b := range data {
			m.bytes[uint32(address)+uint32(i)] = b
		}

		return true
	})

	return err
}

// Backup returns every written byte in the format Restore accepts, one key
// per byte in address order.
func (m *Memory) Backup() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	addresses := make([]uint32, 0, len(m.bytes))
	for address := range m.bytes {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	out := []byte("{}")
	for _, address := range addresses {
		var err error
		key := fmt.Sprintf("0x%08X", address)
		out, err = sjson.SetBytes(out, key, strings.ToUpper(hex.EncodeToString([]byte{m.bytes[address]})))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
