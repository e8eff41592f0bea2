package connection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultTimeout bounds dialing and each round trip.
const DefaultTimeout = 5 * time.Second

// ErrServer is wrapped by errors the server sends as "-ERR ..." lines.
var ErrServer = errors.New("server error")

// nullBulk is the null reply written by respkv-server.
var nullBulk = []byte("$-1\r\n\r\n")

// Client is a connection to one server. It is safe for concurrent use;
// commands are sent one at a time.
type Client struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
	rbuf []byte
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		rbuf:    make([]byte, 4096),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Do sends one command and returns its reply.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Message, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}
	// Cancelling ctx unblocks any pending read or write.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := c.conn.Write(resp.Serialize(resp.NewArray(args...))); err != nil {
		return nil, c.wrapErr(ctx, "send", err)
	}

	for {
		msg, n, err := DecodeReply(c.buf)
		// A server error reply is complete; drop it so the next command
		// reads its own reply.
		if n > 0 {
			c.buf = c.buf[n:]
		}
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return nil, err
		}

		n, err = c.conn.Read(c.rbuf)
		c.buf = append(c.buf, c.rbuf[:n]...)
		if err != nil && n == 0 {
			return nil, c.wrapErr(ctx, "receive", err)
		}
	}
}

func (c *Client) wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DecodeReply decodes one reply at the start of buf and returns it with
// the number of bytes it used. It returns resp.ErrIncomplete when buf holds
// only part of a reply.
func DecodeReply(buf []byte) (resp.Message, int, error) {
	if len(buf) == 0 {
		return nil, 0, resp.ErrIncomplete
	}

	switch buf[0] {
	case '+', '-':
		end := bytes.Index(buf, []byte("\r\n"))
		if end < 0 {
			return nil, 0, resp.ErrIncomplete
		}
		line := string(buf[1:end])
		if buf[0] == '-' {
			return nil, end + 2, fmt.Errorf("%w: %s", ErrServer, line)
		}
		return resp.SimpleString(line), end + 2, nil
	case '$':
		if len(buf) >= 2 && buf[1] == '-' {
			n := min(len(buf), len(nullBulk))
			if !bytes.Equal(buf[:n], nullBulk[:n]) {
				return nil, 0, fmt.Errorf("%w: malformed null reply %q", resp.ErrProtocol, buf[:n])
			}
			if n < len(nullBulk) {
				return nil, 0, resp.ErrIncomplete
			}
			return resp.NullBulk(), len(nullBulk), nil
		}
	}

	return resp.Parse(buf, 0)
}
