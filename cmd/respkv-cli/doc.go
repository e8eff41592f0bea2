// Package main provides the entry point for respkv-cli.
//
// respkv-cli is the command-line client for respkv-server, supporting
// both single-command mode and interactive mode.
package main
