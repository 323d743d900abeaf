package fakepeer

import "go.uber.org/zap"

type Options struct {
	// Addr to listen on, host:port. Port 0 picks a free port, see Server.Addr.
	Addr string

	// Reuseport controls setting SO_REUSEPORT
	Reuseport bool

	// Memory holds the peer state. A fresh Memory is used when nil.
	Memory *Memory

	Log *zap.Logger
}
