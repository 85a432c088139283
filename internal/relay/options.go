package relay

import (
	"fmt"
	"log/slog"
	"time"
)

type serverOption func(s *Server) error

// WithLogger - attaches structured logger to the server.
// Without it the server stays silent.
func WithLogger(log *slog.Logger) serverOption {
	return func(s *Server) error {
		if log == nil {
			return fmt.Errorf("relay.WithLogger: logger is nil")
		}
		s.log = log
		return nil
	}
}

// WithBusCapacity - overwrites default retention capacity of the
// broadcast bus, see bus.WithCapacity.
func WithBusCapacity(n int) serverOption {
	return func(s *Server) error {
		if n <= 0 {
			return fmt.Errorf("relay.WithBusCapacity: invalid capacity (%d)", n)
		}
		s.busCapacity = n
		return nil
	}
}

// WithWriteTimeout - sets a deadline for every single outbound write.
// Zero disables deadlines, which matches the reference behavior of never
// dropping idle connections.
func WithWriteTimeout(timeout time.Duration) serverOption {
	return func(s *Server) error {
		if timeout < 0 {
			return fmt.Errorf("relay.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

func setup(s *Server, options ...serverOption) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}
