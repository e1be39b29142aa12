// Package cache provides a generic, thread-safe cache used by the container
// for merged-definition metadata.
//
// Statistics are always collected (observability is not optional) and can
// additionally be exported as Prometheus metrics via functional options.
package cache

import (
	"github.com/c360/wirekit/errors"
)

// Cache represents a generic cache interface.
// The cache is parameterized by value type V for type safety.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found, zero value and false otherwise.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry was created, false if updated.
	// Returns an error if the operation fails (e.g., invalid key).
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed and was deleted.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries in the cache.
	Size() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []string

	// Stats returns cache statistics.
	Stats() *Statistics
}

// EvictCallback is called when an entry is removed from the cache.
// It receives the key and value of the removed entry.
type EvictCallback[V any] func(key string, value V)

// validateKey rejects keys the cache cannot store safely.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "validateKey", "empty key")
	}
	return nil
}
