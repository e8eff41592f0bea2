// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports multiple
// sources using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: YAML files, environment variables, flags, maps
//   - Watch Support: Callbacks on config file changes (fsnotify)
//   - Type Safety: Unmarshaling into typed structs
//   - Defaults: Values already present in the target struct are kept
//     when no source sets them
//
// Priority (highest to lowest):
//
//  1. Maps loaded with LoadMap (command-line flags)
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
