package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// RedisConfig configures the RESP protocol server.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadBuffer is the size of a single socket read in bytes.
	ReadBuffer int `koanf:"read_buffer"`

	// MaxFrameSize caps the bytes buffered for one incomplete frame.
	MaxFrameSize int `koanf:"max_frame_size"`

	// IdleTimeout closes silent connections. Zero disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is commands per second per client IP. Zero disables it.
	RateLimit int `koanf:"rate_limit"`
}

// MetricsConfig configures the HTTP metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
