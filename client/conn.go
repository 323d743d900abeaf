package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luma/memwatch/protocol"
)

var ErrNotConnected = errors.New("Not connected")

// Conn owns a single stream to a peer and serialises the protocol operations
// on it. The protocol has no request IDs so only one operation may be in
// flight at a time.
type Conn struct {
	mu   sync.Mutex
	conn net.Conn

	log *zap.Logger
}

func New(log *zap.Logger) *Conn {
	return &Conn{log: log}
}

// Wrap returns a Conn using an already established stream.
func Wrap(conn net.Conn, log *zap.Logger) *Conn {
	return &Conn{conn: conn, log: log}
}

func (c *Conn) Connect(ctx context.Context, addr string) error {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.Debug("Connected", zap.String("addr", addr))

	return nil
}

func (c *Conn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return err
}

func (c *Conn) Read(ctx context.Context, address uint32, dt protocol.DataType) (value protocol.Value, err error) {
	err = c.do(ctx, func(conn net.Conn) (err error) {
		value, err = ReadValue(conn, address, dt)
		return err
	})

	c.log.Debug("READ",
		zap.Uint32("address", address),
		zap.Stringer("type", dt),
		zap.Stringer("value", value),
		zap.Error(err))

	return value, err
}

func (c *Conn) Write(ctx context.Context, address uint32, value protocol.Value) error {
	err := c.do(ctx, func(conn net.Conn) error {
		return WriteValue(conn, address, value)
	})

	c.log.Debug("WRITE",
		zap.Uint32("address", address),
		zap.Stringer("type", value.Type),
		zap.Stringer("value", value),
		zap.Error(err))

	return err
}

func (c *Conn) Watch(ctx context.Context, address uint32, dt protocol.DataType) error {
	err := c.do(ctx, func(conn net.Conn) error {
		return Watch(conn, address, dt)
	})

	c.log.Debug("WATCH",
		zap.Uint32("address", address),
		zap.Stringer("type", dt),
		zap.Error(err))

	return err
}

func (c *Conn) ViewWatches(ctx context.Context) (watches protocol.Watches, err error) {
	err = c.do(ctx, func(conn net.Conn) (err error) {
		watches, err = ViewWatches(conn)
		return err
	})

	c.log.Debug("VIEW_WATCHES", zap.Int("count", len(watches)), zap.Error(err))

	return watches, err
}

func (c *Conn) Unwatch(ctx context.Context, address uint32) error {
	err := c.do(ctx, func(conn net.Conn) error {
		return Unwatch(conn, address)
	})

	c.log.Debug("UNWATCH", zap.Uint32("address", address), zap.Error(err))

	return err
}

// do runs fn with exclusive use of the stream. The context's deadline, if
// any, is applied to the stream for the duration of the call. If fn fails
// the stream is closed and later calls return ErrNotConnected.
func (c *Conn) do(ctx context.Context, fn func(conn net.Conn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.conn
	if conn == nil {
		return ErrNotConnected
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}

	if err := fn(conn); err != nil {
		// Whatever failed, we may be mid-frame and the protocol has no way
		// to find the next frame boundary.
		c.log.Warn("Stream desynchronized, closing", zap.Error(err))

		if cerr := conn.Close(); cerr != nil {
			c.log.Warn("Failed to close stream", zap.Error(cerr))
		}
		c.conn = nil

		return err
	}

	if _, ok := ctx.Deadline(); ok {
		return conn.SetDeadline(time.Time{})
	}

	return nil
}
