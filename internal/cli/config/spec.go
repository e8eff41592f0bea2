package config

import "time"

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	// Server is the host:port of the server.
	Server string `koanf:"server"`

	// Output is the reply format: raw, json or yaml.
	Output string `koanf:"output"`

	// Timeout bounds dialing and each command.
	Timeout time.Duration `koanf:"timeout"`

	// HistoryFile stores interactive mode history. Empty disables it.
	HistoryFile string `koanf:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Output:  "raw",
		Timeout: 5 * time.Second,
	}
}
