// Package memory provides the in-memory key-value store for respkv.
//
// Each entry holds a string value and an optional absolute expiry in Unix
// milliseconds, computed when the entry is written.
//
// Expiry is lazy: an entry whose expiry has passed is masked on read but
// stays in the map until the key is written again. Nothing sweeps the map
// in the background.
//
// Thread Safety:
//
// A single sync.RWMutex guards the whole map. Get takes the read lock, so
// readers never block each other. Set takes the write lock and replaces the
// entry (value and expiry together) in one step.
package memory
