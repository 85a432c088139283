// Package relay implements a line-oriented TCP relay: every line a client
// sends is broadcast verbatim to every other connected client.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/relay/internal/relay/bus"
	"github.com/wtask/relay/pkg/background"
)

// Server - accepts TCP clients and relays their lines over a shared
// broadcast bus. Works with any net.Listener implementation.
type Server struct {
	log          *slog.Logger
	busCapacity  int
	writeTimeout time.Duration

	bus    *bus.Bus
	scope  *background.Scope
	cancel func()
}

// NewServer - builds relay server with needed options.
func NewServer(options ...serverOption) (*Server, error) {
	scope, cancel := background.NewScope()
	s := &Server{
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		busCapacity: bus.DefaultCapacity,
		scope:       scope,
		cancel:      cancel,
	}
	if err := setup(s, options...); err != nil {
		cancel()
		return nil, err
	}
	b, err := bus.New(bus.WithCapacity(s.busCapacity))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("relay.NewServer: can't build bus: %w", err)
	}
	s.bus = b
	return s, nil
}

// Serve - accepts connections from the listener until it fails or the
// server is shut down, launching an independent session per connection
// without waiting for it. An accept error aborts serving and is returned
// to the caller.
// TODO: retry transient accept errors instead of giving up the listener.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("relay.Server: net listener is nil")
	}
	if s.scope.Context().Err() != nil {
		return errors.New("relay.Server: already stopped")
	}

	s.scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		listener.Close()
	})

	s.log.Info("accepting connections", "address", listener.Addr().String())
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.scope.Context().Done():
				return nil
			default:
			}
			return fmt.Errorf("relay.Server: accept: %w", err)
		}
		s.scope.Add(1)
		go func(conn net.Conn) {
			defer s.scope.Done()
			s.holdConnection(conn)
		}(conn)
	}
}

// Shutdown - stops the server: closes the bus, cancels every session and
// waits for them up to the specified timeout. Returns time spent stopping.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	if s.scope.Context().Err() != nil {
		return 0
	}
	from := time.Now()
	s.bus.Close()
	done := make(chan struct{})
	go func() {
		s.cancel()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
	return time.Since(from)
}
