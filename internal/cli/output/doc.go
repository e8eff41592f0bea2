// Package output renders server replies for respkv-cli.
//
// Supported formats:
//
//   - raw: redis-cli style text ("PONG", "\"bar\"", "(nil)")
//   - json: one object per reply with its type and value
//   - yaml: the same structure as json, as YAML
package output
