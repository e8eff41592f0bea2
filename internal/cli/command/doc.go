// Package command provides CLI command definitions for respkv-cli.
//
// It uses urfave/cli/v2 for command parsing and supports single-command
// mode (respkv-cli get foo) and interactive mode when no command is given.
package command
