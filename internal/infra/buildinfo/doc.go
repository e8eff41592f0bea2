// Package buildinfo provides build information for respkv.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// When a value is not injected, it is taken from the module build info
// embedded by the Go toolchain, if present.
package buildinfo
