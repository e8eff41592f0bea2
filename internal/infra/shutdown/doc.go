// Package shutdown provides graceful shutdown for respkv-server.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Context cancellation as an alternative trigger
//   - Named cleanup hooks run in reverse order under one timeout
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait()
package shutdown
