// Package main provides the entry point for respkv-server.
//
// respkv-server is an in-memory key-value server speaking a subset of the
// Redis serialization protocol (RESP). It answers ECHO, GET and SET, and
// replies PONG to anything else.
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server -config /path/to/config.yaml
//	respkv-server -addr 0.0.0.0:6379 -metrics-addr 127.0.0.1:9121
//
// Settings come from defaults, the config file, RESPKV_* environment
// variables and flags, in that order. When a config file is given it is
// watched, and a changed log level is applied without a restart.
package main
