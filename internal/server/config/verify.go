package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrInvalid is returned by Verify for any rejected setting.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyRedis(&cfg.Server.Redis); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Server.Metrics, cfg.Server.Redis.Addr); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyRedis(cfg *RedisConfig) error {
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.ReadBuffer <= 0 {
		return fmt.Errorf("%w: server.redis.read_buffer must be positive, got %d", ErrInvalid, cfg.ReadBuffer)
	}
	if cfg.MaxFrameSize < cfg.ReadBuffer {
		return fmt.Errorf("%w: server.redis.max_frame_size (%d) must be at least read_buffer (%d)",
			ErrInvalid, cfg.MaxFrameSize, cfg.ReadBuffer)
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("%w: server.redis.idle_timeout must not be negative", ErrInvalid)
	}
	if cfg.WriteTimeout < 0 {
		return fmt.Errorf("%w: server.redis.write_timeout must not be negative", ErrInvalid)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("%w: server.redis.rate_limit must not be negative", ErrInvalid)
	}
	return nil
}

func verifyMetrics(cfg *MetricsConfig, redisAddr string) error {
	if cfg.Addr == "" {
		return nil
	}
	if err := verifyAddr("server.metrics.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.Addr == redisAddr {
		return fmt.Errorf("%w: server.metrics.addr and server.redis.addr are both %s", ErrInvalid, cfg.Addr)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q (want debug, info, warn or error)", ErrInvalid, cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format %q (want json or text)", ErrInvalid, cfg.Format)
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return nil
}
