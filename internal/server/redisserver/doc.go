// Package redisserver provides the Redis protocol compatible server for
// respkv.
//
// Supported commands:
//   - ECHO <value>
//   - GET <key>
//   - SET <key> <value> [PX <milliseconds> | EX <seconds>]
//
// Every other input, including malformed invocations of the commands above,
// is answered with +PONG.
//
// Each connection is served by its own goroutine. Input is buffered until
// it holds complete frames, so one read may carry several pipelined
// commands or only part of one. A frame that can never become valid closes
// the connection; other connections are unaffected.
package redisserver
