package fakepeer

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/memwatch/protocol"
)

// Server is an in-process stand-in for the remote process. It speaks the
// memwatch wire protocol on TCP and answers from its Memory.
type Server struct {
	cancel     context.CancelFunc
	stopWaiter sync.WaitGroup

	addr      string
	reuseport bool
	listener  net.Listener

	memory *Memory

	mu          sync.Mutex
	closing     bool
	activeConns map[net.Conn]struct{}

	log *zap.Logger
}

func New(options Options) *Server {
	memory := options.Memory
	if memory == nil {
		memory = NewMemory()
	}

	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		addr:        options.Addr,
		reuseport:   options.Reuseport,
		memory:      memory,
		activeConns: make(map[net.Conn]struct{}),
		log:         log,
	}
}

func (s *Server) Memory() *Memory {
	return s.memory
}

// Addr returns the address the server is listening on. It is only valid
// after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start listens and begins accepting connections in the background.
func (s *Server) Start(parentCtx context.Context) (err error) {
	if s.reuseport {
		s.listener, err = reuseport.Listen("tcp", s.addr)
	} else {
		s.listener, err = net.Listen("tcp", s.addr)
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	s.log.Info("Listening", zap.Stringer("addr", s.listener.Addr()))

	s.stopWaiter.Add(1)
	go func() {
		defer s.stopWaiter.Done()
		s.acceptLoop(ctx)
	}()

	return nil
}

// Close stops accepting, closes every active connection and waits for their
// loops to exit.
func (s *Server) Close() (err error) {
	if s.cancel == nil {
		return nil
	}

	s.cancel()

	if lerr := s.listener.Close(); lerr != nil && !isClosedErr(lerr) {
		err = multierr.Append(err, lerr)
	}

	s.mu.Lock()
	s.closing = true
	for conn := range s.activeConns {
		if cerr := conn.Close(); cerr != nil && !isClosedErr(cerr) {
			err = multierr.Append(err, cerr)
		}
	}
	s.mu.Unlock()

	s.stopWaiter.Wait()
	s.log.Info("Stopped")

	return err
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() == nil && !isClosedErr(err) {
				s.log.Error("Failed to accept", zap.Error(err))
			}
			return
		}

		if !s.addConn(conn) {
			return
		}

		s.stopWaiter.Add(1)
		go func() {
			defer s.stopWaiter.Done()
			defer s.removeConn(conn)

			s.serve(conn)
		}()
	}
}

func (s *Server) serve(conn net.Conn) {
	log := s.log.Named("conn").With(zap.Stringer("remote", conn.RemoteAddr()))
	log.Debug("Client connected")

	defer func() {
		conn.Close()
		log.Debug("Client disconnected")
	}()

	for {
		req, err := protocol.ParseRequest(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !isClosedErr(err) {
				// No request IDs, so there is no way to resynchronise
				log.Warn("Failed to read client request, dropping connection", zap.Error(err))
			}
			return
		}

		if err := s.dispatch(conn, req); err != nil {
			log.Warn("Failed to respond",
				zap.Stringer("command", req.GetCommand()),
				zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(w io.Writer, req protocol.Request) error {
	switch r := req.(type) {
	case *protocol.ReadRequest:
		return protocol.WriteRawValue(w, r.Width, s.memory.Read(r.Address, r.Width))

	case *protocol.WriteRequest:
		s.memory.Write(r.Address, r.Width, r.Value)

	case *protocol.WatchRequest:
		s.memory.Watch(r.Address, r.DataType())

	case *protocol.ViewWatchesRequest:
		return protocol.WriteWatches(w, s.memory.Watches())

	case *protocol.UnwatchRequest:
		s.memory.Unwatch(r.Address)
	}

	return nil
}

// addConn registers conn so Close can reach it. Once Close has started conn is
// closed instead and false is returned.
func (s *Server) addConn(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		conn.Close()
		return false
	}

	s.activeConns[conn] = struct{}{}
	return true
}

func (s *Server) removeConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.activeConns, conn)
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
