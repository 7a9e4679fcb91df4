package proxy

import (
	"context"
	"errors"
	"io"
)

// ErrConnClosed is returned by Conn.Write once the connection has been closed.
var ErrConnClosed = errors.New("client connection closed")

type connState int

const (
	connIdle connState = iota
	connOpen
	connClosed
)

func (s connState) String() string {
	switch s {
	case connIdle:
		return "idle"
	case connOpen:
		return "open"
	default:
		return "closed"
	}
}

// Conn guards the single outbound event stream of a request. It moves
// idle -> open -> closed and never back: headers are sent at most once, the
// underlying writer is closed at most once and is never written after that.
//
// A Conn is owned by one relay stage at a time and is not safe for
// concurrent use.
type Conn struct {
	w      io.WriteCloser
	onOpen func()
	state  connState

	written int64
}

// NewConn wraps w. onOpen, if set, runs once when the connection opens and
// is where response headers get written.
func NewConn(w io.WriteCloser, onOpen func()) *Conn {
	return &Conn{w: w, onOpen: onOpen}
}

// Open marks the stream as started. Calls after the first are no-ops.
func (c *Conn) Open() {
	if c.state != connIdle {
		return
	}
	c.state = connOpen
	if c.onOpen != nil {
		c.onOpen()
	}
}

// Write sends p to the client, opening the connection first if needed.
func (c *Conn) Write(p []byte) (int, error) {
	if c.state == connClosed {
		return 0, ErrConnClosed
	}
	c.Open()

	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}

// Close ends the stream. It is idempotent; only the first call reaches the
// underlying writer.
func (c *Conn) Close() error {
	if c.state == connClosed {
		return nil
	}
	c.state = connClosed
	return c.w.Close()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.state == connClosed
}

// Written is the number of bytes accepted by the underlying writer.
func (c *Conn) Written() int64 {
	return c.written
}

// clientStream is the body fasthttp reads the response from. fasthttp closes
// it once the response is done or the client is gone; closing cancels the
// request context so an idle upstream read is abandoned straight away
// instead of on the next write.
type clientStream struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (s clientStream) Close() error {
	s.cancel()
	return s.PipeReader.Close()
}
