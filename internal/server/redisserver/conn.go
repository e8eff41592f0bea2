package redisserver

import (
	"bufio"
	"net"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

// Conn represents a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	bw      *bufio.Writer

	// pending holds received bytes not yet parsed into a full frame.
	pending []byte

	ip      string
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		bw:      bufio.NewWriter(c),
		ip:      clientIP(c.RemoteAddr()),
	}
}

// ID returns the connection ID used in logs.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the underlying connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// consume drops the first n pending bytes, keeping any partial frame.
func (c *Conn) consume(n int) {
	if n == 0 {
		return
	}
	rest := copy(c.pending, c.pending[n:])
	c.pending = c.pending[:rest]
}

// clientIP extracts the host part of addr, falling back to the full string.
func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
