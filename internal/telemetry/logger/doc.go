// Package logger provides structured logging for respkv.
//
// It wraps log/slog with a small Logger interface, a process-wide level
// that can be changed at runtime (the server does so when its config file
// changes), and context helpers that carry a per-connection ID.
//
// Stored payloads are never logged in full: attributes named "value" are
// truncated, and credential-like keys are redacted.
package logger
