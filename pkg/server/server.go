package server

import (
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taiki-okano/benchcached/pkg/protocol"
	"github.com/taiki-okano/benchcached/pkg/store"
)

// A Server accepts TCP connections and serves exactly one request on
// each, strictly one connection at a time. There is no worker pool and
// no per-connection goroutine: a slow client stalls the accept loop,
// which is the intended scheduling model for this benchmark target.
type Server struct {
	listener net.Listener
	handler  *protocol.Handler
	debug    bool
	stopped  atomic.Bool
}

// New starts listening on the given TCP port and pairs the listener
// with a handler over table.
func New(port int, table *store.Table, debug bool) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%v", port))
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		handler:  protocol.NewHandler(table, debug),
		debug:    debug,
	}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Failures returns how many table operations have failed so far.
func (s *Server) Failures() uint64 {
	return s.handler.Failures()
}

// Stop makes the accept loop exit before its next connection. The flag
// is only checked between connections; an in-flight request is never
// interrupted, so a stalled client can push shutdown past a configured
// deadline. Closing the listener unblocks a pending Accept.
func (s *Server) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.listener.Close()
	}
}

// Run serves connections until Stop is called or the optional deadline
// expires. A non-positive timeout means run until stopped. The returned
// error is nil on a clean stop and non-nil on fatal I/O.
func (s *Server) Run(timeout time.Duration) error {
	if timeout > 0 {
		timer := time.AfterFunc(timeout, s.Stop)
		defer timer.Stop()
	}

	for !s.stopped.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopped.Load() {
				break
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		if s.debug {
			log.Printf("[DEBUG] client %v connected from %v", uuid.New(), conn.RemoteAddr())
		}
		err = s.handler.Serve(conn)
		conn.Close()
		if err != nil {
			s.Stop()
			return fmt.Errorf("serve failed: %w", err)
		}
	}
	return nil
}
