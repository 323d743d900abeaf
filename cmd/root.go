package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/memwatch/client"
	"github.com/luma/memwatch/cmd/gen"
	"github.com/luma/memwatch/internal/env"
)

var (
	// The peer to connect to, overrides MEMWATCH_ADDR
	addr string

	// How long to wait for the peer to accept a connection
	dialTimeout time.Duration

	// Overrides MEMWATCH_LOG_LEVEL
	logLevel string

	// Print results as JSON
	asJSON bool
)

var RootCmd = &cobra.Command{
	Use:   "memwatch",
	Short: "Inspect and modify the memory of a remote process",
	Long: `Inspect and modify the memory of a remote process.

memwatch talks to a peer that exposes the memory of a running process over
TCP. It can read and write values and manage the peer's watch list.

Usage
	memwatch read 0x00ECC430 --type u32
	memwatch write 0x00ECC430 2 --type u32
	memwatch watch 0x00ECC430 --type f32
	memwatch watches
	memwatch unwatch 0x00ECC430

`,
	SilenceUsage: true,
}

func init() {
	flags := RootCmd.PersistentFlags()

	flags.StringVarP(&addr, "addr", "a", "", "The peer to connect to (default $MEMWATCH_ADDR or 127.0.0.1:3333)")
	flags.DurationVar(&dialTimeout, "dial-timeout", 0, "How long to wait when connecting (default $MEMWATCH_DIAL_TIMEOUT or 5s)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $MEMWATCH_LOG_LEVEL or info)")

	RootCmd.AddCommand(ReadCmd, WriteCmd, WatchCmd, WatchesCmd, UnwatchCmd)
	RootCmd.AddCommand(BridgeCmd, VersionCmd, gen.RootCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(ctx context.Context) (*env.Config, *zap.Logger, error) {
	conf, err := env.LoadConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to load config: %w", err)
	}

	if addr != "" {
		conf.Addr = addr
	}

	if dialTimeout > 0 {
		conf.DialTimeout = dialTimeout
	}

	if logLevel != "" {
		conf.LogLevel = logLevel
	}

	log, err := env.MakeLogger(conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return conf, log, nil
}

// connect dials the configured peer.
func connect(ctx context.Context, conf *env.Config, log *zap.Logger) (*client.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, conf.DialTimeout)
	defer cancel()

	conn := client.New(log.Named("client"))
	if err := conn.Connect(dialCtx, conf.Addr); err != nil {
		return nil, fmt.Errorf("Failed to connect to %s: %w", conf.Addr, err)
	}

	return conn, nil
}

// withConn runs fn with a connection to the peer that is closed afterwards.
func withConn(cmd *cobra.Command, fn func(ctx context.Context, conn *client.Conn) error) error {
	ctx, signalStop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer signalStop()

	conf, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := connect(ctx, conf, log)
	if err != nil {
		return err
	}

	defer func() {
		if err := conn.Disconnect(); err != nil {
			log.Warn("Failed to disconnect cleanly", zap.Error(err))
		}
	}()

	return fn(ctx, conn)
}
