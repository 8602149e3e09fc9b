package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

var (
	ErrPacketTooLarge = errors.New("transport: packet too large")
	ErrReadFailed     = errors.New("transport: read failed")
)

// Consecutive read failures pause between retries, doubling from
// readRetryMin up to readRetryMax. Serve gives up after maxReadFailures.
var (
	readRetryMin    = 5 * time.Millisecond
	readRetryMax    = time.Second
	maxReadFailures = 10
)

// Handler answers one datagram. A nil reply sends nothing.
type Handler interface {
	Handle(addr string, b []byte) ([]byte, error)
}

type HandlerFunc func(addr string, b []byte) ([]byte, error)

func (f HandlerFunc) Handle(addr string, b []byte) ([]byte, error) { return f(addr, b) }

// Server reads datagrams from a packet conn and dispatches them in order.
type Server struct {
	conn    net.PacketConn
	handler Handler
}

// Listen binds a UDP socket on addr.
func Listen(ctx context.Context, addr string, h Handler) (*Server, error) {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	return NewServer(conn, h), nil
}

// NewServer serves h over an existing conn.
func NewServer(conn net.PacketConn, h Handler) *Server {
	return &Server{conn: conn, handler: h}
}

func (s *Server) Addr() net.Addr { return s.conn.LocalAddr() }

func (s *Server) Close() error { return s.conn.Close() }

// Serve runs the read loop until ctx is done or the conn fails. It closes
// the conn on return and reports nil for a cancelled ctx.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()
	defer s.conn.Close()

	log.Info().Str("addr", s.Addr().String()).Msg("transport.Serve listening")
	var (
		failures int
		delay    time.Duration
	)
	for {
		// One spare byte detects datagrams above the limit.
		buf := make([]byte, schema.MaxNetPktSize+1)
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			failures++
			if failures >= maxReadFailures {
				return fmt.Errorf("%w: %d consecutive errors: %w", ErrReadFailed, failures, err)
			}
			delay = min(max(delay*2, readRetryMin), readRetryMax)
			log.Warn().Err(err).Int("failures", failures).Dur("retry_in", delay).Msg("transport.Serve read failed")
			if !sleepCtx(ctx, delay) {
				return nil
			}
			continue
		}
		failures, delay = 0, 0
		observability.RecordDatagram(observability.DirectionIn)
		s.dispatch(from, buf[:n])
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Server) dispatch(from net.Addr, b []byte) {
	addr := from.String()
	if len(b) > schema.MaxNetPktSize {
		observability.RecordDatagram(observability.DirectionDropped)
		log.Debug().Str("addr", addr).Int("bytes", len(b)).Msg("transport dropped oversize datagram")
		return
	}
	reply, err := s.handler.Handle(addr, b)
	if err != nil {
		observability.RecordDatagram(observability.DirectionDropped)
		log.Debug().Err(err).Str("addr", addr).Int("bytes", len(b)).Msg("transport dropped datagram")
		return
	}
	if reply == nil {
		return
	}
	if _, err := s.conn.WriteTo(reply, from); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("transport reply failed")
		return
	}
	observability.RecordDatagram(observability.DirectionOut)
}

// Conn is a client socket connected to one server.
type Conn struct {
	conn net.Conn
}

// Dial connects a UDP socket to addr.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	return &Conn{conn: conn}, nil
}

func (c *Conn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }
func (c *Conn) Close() error         { return c.conn.Close() }

// Send writes one datagram.
func (c *Conn) Send(ctx context.Context, b []byte) error {
	if len(b) > schema.MaxNetPktSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(b))
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := c.conn.Write(b); err != nil {
		return err
	}
	observability.RecordDatagram(observability.DirectionOut)
	return nil
}

// Recv reads one datagram, returning ctx's error once ctx is done.
// Oversize datagrams are dropped and reading continues.
func (c *Conn) Recv(ctx context.Context) ([]byte, error) {
	for {
		b, err := c.recvOnce(ctx)
		if errors.Is(err, ErrPacketTooLarge) {
			observability.RecordDatagram(observability.DirectionDropped)
			continue
		}
		return b, err
	}
}

func (c *Conn) recvOnce(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
		}
	}()

	buf := make([]byte, schema.MaxNetPktSize+1)
	n, err := c.conn.Read(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, os.ErrDeadlineExceeded) && !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	if n > schema.MaxNetPktSize {
		return nil, ErrPacketTooLarge
	}
	observability.RecordDatagram(observability.DirectionIn)
	return buf[:n], nil
}
