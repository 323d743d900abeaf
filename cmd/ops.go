package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luma/memwatch/client"
	"github.com/luma/memwatch/internal/render"
	"github.com/luma/memwatch/protocol"
)

var (
	// The data type of the value to read, write or watch
	dataType string
)

func init() {
	for _, c := range []*cobra.Command{ReadCmd, WriteCmd, WatchCmd} {
		c.Flags().StringVarP(&dataType, "type", "t", protocol.U32.String(), "One of u8, u16, u32, i8, i16, i32, f32")
	}

	for _, c := range []*cobra.Command{ReadCmd, WatchesCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	}
}

var ReadCmd = &cobra.Command{
	Use:   "read <address>",
	Short: "Read a value from the remote process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, dt, err := parseTarget(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, conn *client.Conn) error {
			value, err := conn.Read(ctx, address, dt)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := render.ValueJSON(address, value)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", render.Address(address), value)
			return err
		})
	},
}

var WriteCmd = &cobra.Command{
	Use:   "write <address> <value>",
	Short: "Write a value into the remote process",
	Long: `Write a value into the remote process.

The number of bytes written is the width of --type, whatever the magnitude
of the value. Integers may be given in decimal or with a 0x, 0o or 0b prefix.

Put negative values after -- so they are not taken for flags:

  memwatch write 0x00ECC430 --type i16 -- -1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, dt, err := parseTarget(args[0])
		if err != nil {
			return err
		}

		value, err := protocol.ParseValue(dt, args[1])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, conn *client.Conn) error {
			return conn.Write(ctx, address, value)
		})
	},
}

var WatchCmd = &cobra.Command{
	Use:   "watch <address>",
	Short: "Ask the peer to watch an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, dt, err := parseTarget(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, conn *client.Conn) error {
			return conn.Watch(ctx, address, dt)
		})
	},
}

var WatchesCmd = &cobra.Command{
	Use:   "watches",
	Short: "List the peer's watches and their last known values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, conn *client.Conn) error {
			watches, err := conn.ViewWatches(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := render.WatchesJSON(watches)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			return render.WatchesTable(cmd.OutOrStdout(), watches)
		})
	},
}

var UnwatchCmd = &cobra.Command{
	Use:   "unwatch <address>",
	Short: "Ask the peer to stop watching an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := render.ParseAddress(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, conn *client.Conn) error {
			return conn.Unwatch(ctx, address)
		})
	},
}

func parseTarget(rawAddress string) (uint32, protocol.DataType, error) {
	address, err := render.ParseAddress(rawAddress)
	if err != nil {
		return 0, protocol.U32, err
	}

	dt, err := protocol.ParseDataType(dataType)
	if err != nil {
		return 0, protocol.U32, err
	}

	return address, dt, nil
}
