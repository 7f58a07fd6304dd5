package http

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/FortovEgor/ServeMe/cache"
	"github.com/FortovEgor/ServeMe/filesystem"
	"github.com/FortovEgor/ServeMe/logging"
)

// Server accepts connections and hands each one to a Session goroutine. The
// routing table must be complete before Serve runs; Cache may stay nil to
// disable response caching.
type Server struct {
	Router *Router
	Cache  *cache.ResponseCache
	FS     filesystem.Filesystem
	Logger *logging.Logger

	mu           sync.Mutex
	listener     net.Listener
	conns        map[net.Conn]struct{}
	shuttingDown bool

	sessions sync.WaitGroup
}

func NewServer(logger *logging.Logger) *Server {
	return &Server{
		Router: NewRouter(),
		FS:     filesystem.NewLocalFileSystem(),
		Logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// AddEndpoint registers a response source for a (path, method) pair,
// delegating to the Router.
func (s *Server) AddEndpoint(path string, method Method, source Source) {
	s.Router.Register(path, method, source)
}

// ListenAndServe binds addr and serves until ctx is cancelled or Shutdown is
// called.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve runs the accept loop on listener. Cancellation is observed at the
// top of each iteration; accept errors other than a closed listener are
// logged and skipped. Serve returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	// Accept blocks, so closing the listener is what actually delivers the
	// cancellation.
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			s.Logger.Errorf("accept failed: %v", err)
			continue
		}

		s.mu.Lock()
		if s.shuttingDown {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.sessions.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.release(conn)
			NewSession(conn, s.Router, s.Cache, s.FS, s.Logger).Serve()
		}()
	}
}

func (s *Server) release(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()

	s.sessions.Done()
}

// Shutdown stops accepting and waits for in-flight sessions to finish. When
// ctx expires first, the remaining connections are force-closed and ctx's
// error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shuttingDown = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	// Force-closed connections fail their pending reads and writes, so the
	// drain completes promptly.
	<-done
	return ctx.Err()
}
