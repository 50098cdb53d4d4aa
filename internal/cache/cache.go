// Package cache memoizes derived report data between store mutations.
package cache

import "strconv"

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Purge drops every entry
	Purge()

	// Size returns the current number of items in the cache
	Size() int
}

// RevisionKey builds a key that changes whenever the backing store does, so
// stale entries are never read back and simply age out.
func RevisionKey(kind string, revision uint64) string {
	return kind + "@" + strconv.FormatUint(revision, 10)
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   uint64
	Misses uint64
}
