// Package config defines the respkv-cli configuration.
//
// Settings come from ~/.respkv/cli.yaml and RESPKV_CLI_* environment
// variables, loaded through internal/infra/confloader. Command-line flags
// override both.
package config
