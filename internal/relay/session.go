package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wtask/relay/internal/relay/bus"
	"github.com/wtask/relay/internal/relay/frame"
)

// holdConnection - runs the whole lifetime of one client session: reads
// lines from the connection into the bus and drains the session's bus
// subscription back into the connection. The two directions race under a
// shared per-session context, so a failure on either side tears the
// session down; no state survives past this call.
func (s *Server) holdConnection(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	log := s.log.With("session", uuid.NewString(), "peer", addr)

	sub := s.bus.Subscribe()
	defer func() {
		sub.Close()
		conn.Close()
		log.Info("session closed")
	}()
	log.Info("session started")

	ctx, cancel := context.WithCancel(s.scope.Context())
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer func() {
			cancel()
			// release the blocked reader even though its own half is fine
			conn.Close()
			wg.Done()
		}()
		s.relayOutbound(ctx, conn, addr, sub, log)
	}()

	s.relayInbound(conn, addr, log)
	cancel()
	conn.Close()
	wg.Wait()
}

// relayInbound - pumps framed lines from the connection into the bus until
// end of stream or a read error. The line is published with this session's
// own address so other sessions can exclude the author.
func (s *Server) relayInbound(conn net.Conn, addr string, log *slog.Logger) {
	framer := frame.New(conn)
	for {
		line, err := framer.ReadLine()
		if line != "" {
			s.bus.Publish(bus.Message{Text: line, Origin: addr})
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("inbound relay stopped", "error", err)
			}
			return
		}
	}
}

// relayOutbound - drains the session's subscription into the connection.
// Messages originating from this session's own address are discarded to
// prevent echo. Lag is survivable: delivery resumes from the oldest
// retained message. A write failure is fatal for the session.
func (s *Server) relayOutbound(ctx context.Context, conn net.Conn, addr string, sub *bus.Subscriber, log *slog.Logger) {
	for {
		m, err := sub.Receive(ctx)
		if err != nil {
			var lag *bus.LagError
			if errors.As(err, &lag) {
				log.Warn("subscriber lagged", "missed", lag.Missed)
				continue
			}
			// context canceled or bus closed
			return
		}
		if m.Origin == addr {
			continue
		}
		if s.writeTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if _, err := io.WriteString(conn, m.Text); err != nil {
			log.Debug("outbound relay stopped", "error", err)
			return
		}
	}
}
