// Package httpserver provides the operational HTTP endpoint for respkv.
//
// It serves, using stdlib net/http:
//
//   - /metrics: Prometheus exposition of the server registry
//   - /healthz: liveness, always 200 while the process serves HTTP
//   - /readyz: readiness, 200 once the RESP listener is bound
//
// Every route runs behind the RequestID and Recover middlewares. The
// endpoint is disabled unless server.metrics.addr is set.
package httpserver
