// Package repl provides interactive mode for respkv-cli.
//
// This package implements the Read-Eval-Print Loop for interactive sessions:
//
//   - repl.go: Main loop, line splitting and command dispatch
//   - commands.go: Command names listed by help
//   - history.go: Command history persistence
//
// Each input line is split into words (double quotes group words and
// accept Go escape sequences) and sent to the server as one command.
package repl
