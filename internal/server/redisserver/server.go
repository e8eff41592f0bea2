package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Config holds the Redis server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadBufferSize is the size of a single socket read (default: 4KB).
	ReadBufferSize int
	// MaxFrameSize caps the bytes buffered for one incomplete frame
	// (default: 1MB). A client exceeding it is disconnected.
	MaxFrameSize int
	// IdleTimeout closes connections that send nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout is the timeout for flushing replies (default: 30s).
	WriteTimeout time.Duration
	// RateLimit is the maximum number of commands per second per client IP.
	// Commands over the limit are delayed, not rejected. Zero disables it.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        "127.0.0.1:6379",
		ReadBufferSize: 4 * 1024,
		MaxFrameSize:   1024 * 1024,
		IdleTimeout:    0,
		WriteTimeout:   30 * time.Second,
		RateLimit:      0,
	}
}

// Server represents the Redis protocol server.
type Server struct {
	cfg      *Config
	handler  *CommandHandler
	logger   *slog.Logger
	metrics  *metric.Registry
	limiters *limiterRegistry

	ln       net.Listener
	stopCtx  func() bool
	running  atomic.Bool
	wg       sync.WaitGroup
	connsMu  sync.Mutex
	conns    map[*Conn]struct{}
	shutdown sync.Once
}

// New creates a new Redis protocol server backed by store.
// metrics may be nil.
func New(cfg *Config, store Store, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultConfig()
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = defaults.ReadBufferSize
	}
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = defaults.MaxFrameSize
	}

	return &Server{
		cfg:      cfg,
		handler:  NewCommandHandler(store, metrics, logger),
		logger:   logger,
		metrics:  metrics,
		limiters: newLimiterRegistry(cfg.RateLimit),
		conns:    make(map[*Conn]struct{}),
	}
}

// Start binds the listen address and serves connections in the background.
// Cancelling ctx stops the server the same way Shutdown does, without
// waiting for connection goroutines.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	s.ln = ln
	s.running.Store(true)
	s.stopCtx = context.AfterFunc(ctx, s.closeAll)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis server accept error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting, closes every open connection and waits for
// their goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopCtx != nil {
		s.stopCtx()
	}
	s.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) closeAll() {
	s.shutdown.Do(func() {
		s.running.Store(false)
		if s.ln != nil {
			_ = s.ln.Close()
		}

		s.connsMu.Lock()
		defer s.connsMu.Unlock()
		for c := range s.conns {
			_ = c.Close()
		}
	})
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		c := newConn(nc)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}
}

// track registers c for Shutdown. It reports false once the server stops.
func (s *Server) track(c *Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, c)
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	log := s.logger.With("conn_id", c.ID(), "remote", c.RemoteAddr().String())
	ctx = logger.WithConnID(ctx, c.ID())

	if s.limiters != nil {
		c.limiter = s.limiters.acquire(c.ip)
	}
	s.metrics.ConnOpened()
	log.Debug("connection accepted")

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while serving connection", "panic", r, "stack", string(debug.Stack()))
		}
		_ = c.Close()
		s.untrack(c)
		if s.limiters != nil {
			s.limiters.release(c.ip)
		}
		s.metrics.ConnClosed()
		log.Debug("connection closed")
	}()

	buf := make([]byte, s.cfg.ReadBufferSize)
	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		n, err := c.netConn.Read(buf)
		if n > 0 {
			c.pending = append(c.pending, buf[:n]...)
			if perr := s.process(ctx, c); perr != nil {
				s.logConnError(log, perr)
				return
			}
		}
		if err != nil {
			s.logConnError(log, err)
			return
		}
	}
}

// process handles every complete frame in c.pending, in order, and flushes
// the replies. A trailing partial frame stays buffered for the next read.
// Replies to frames parsed before a corrupt frame are still sent.
func (s *Server) process(ctx context.Context, c *Conn) error {
	var procErr error
	off := 0
	for off < len(c.pending) {
		msg, next, err := resp.Parse(c.pending, off)
		if errors.Is(err, resp.ErrIncomplete) {
			break
		}
		if err != nil {
			procErr = err
			break
		}
		off = next

		if err := s.throttle(ctx, c); err != nil {
			procErr = err
			break
		}
		if err := resp.Write(c.bw, s.handler.Handle(ctx, msg)); err != nil {
			return err
		}
	}
	c.consume(off)

	if procErr == nil && len(c.pending) > s.cfg.MaxFrameSize {
		procErr = fmt.Errorf("%w: %d bytes buffered for one frame, limit %d",
			resp.ErrLimitExceeded, len(c.pending), s.cfg.MaxFrameSize)
	}

	if err := s.flush(c); err != nil {
		return err
	}
	return procErr
}

// throttle delays the next command when the client is over its rate.
func (s *Server) throttle(ctx context.Context, c *Conn) error {
	if c.limiter == nil || c.limiter.Allow() {
		return nil
	}
	s.metrics.Throttled()

	// Deliver replies already computed before blocking.
	if err := s.flush(c); err != nil {
		return err
	}
	return c.limiter.Wait(ctx)
}

func (s *Server) flush(c *Conn) error {
	if c.bw.Buffered() == 0 {
		return nil
	}
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	return c.bw.Flush()
}

// logConnError logs why a connection ended at a level matching its cause.
func (s *Server) logConnError(log *slog.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return
	case errors.Is(err, resp.ErrLimitExceeded):
		s.metrics.ProtocolError("limit")
		log.Warn("protocol limit exceeded, closing connection", "error", err)
	case errors.Is(err, resp.ErrProtocol):
		s.metrics.ProtocolError("corrupt")
		log.Warn("malformed frame, closing connection", "error", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug("connection cancelled", "error", err)
	default:
		log.Debug("connection error", "error", err)
	}
}
