// Package render formats watch tables and values for people and programs.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/tidwall/sjson"

	"github.com/luma/memwatch/protocol"
)

// Address formats an address the way the CLI accepts it.
func Address(address uint32) string {
	return fmt.Sprintf("0x%08X", address)
}

// ParseAddress accepts decimal or 0x prefixed hex.
func ParseAddress(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("Failed to parse address '%s': %w", s, err)
	}

	return uint32(n), nil
}

// ValueJSON renders a single value read from address.
func ValueJSON(address uint32, v protocol.Value) ([]byte, error) {
	return setValue([]byte("{}"), "", address, v)
}

// WatchesJSON renders a watch table as a JSON array in table order.
func WatchesJSON(watches protocol.Watches) ([]byte, error) {
	out := []byte("[]")

	for i, w := range watches {
		var err error
		prefix := strconv.Itoa(i) + "."

		out, err = setValue(out, prefix, w.Address, w.Value())
		if err != nil {
			return nil, err
		}

		if out, err = sjson.SetBytes(out, prefix+"width", w.Width); err != nil {
			return nil, err
		}

		if w.SignTag != tagOf(w.DataType) {
			if out, err = sjson.SetBytes(out, prefix+"sign_tag", byte(w.SignTag)); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func setValue(out []byte, prefix string, address uint32, v protocol.Value) (_ []byte, err error) {
	if out, err = sjson.SetBytes(out, prefix+"address", Address(address)); err != nil {
		return nil, err
	}

	if out, err = sjson.SetBytes(out, prefix+"type", v.Type.String()); err != nil {
		return nil, err
	}

	if out, err = sjson.SetBytes(out, prefix+"raw", v.Raw()); err != nil {
		return nil, err
	}

	return sjson.SetBytes(out, prefix+"value", v.Interface())
}

// WatchesTable writes a human readable table of watches.
func WatchesTable(w io.Writer, watches protocol.Watches) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ADDRESS\tTYPE\tVALUE\tRAW")
	for _, watch := range watches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t0x%0*X\n",
			Address(watch.Address),
			watch.DataType,
			watch.Value(),
			int(watch.Width)*2, watch.Raw)
	}

	return tw.Flush()
}

func tagOf(dt protocol.DataType) protocol.SignTag {
	_, tag := dt.Wire()
	return tag
}
