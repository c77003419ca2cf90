// Package cache persists computed fingerprints between scans so unchanged
// files are not decoded and hashed again. Entries are keyed by path and
// modification time; a file that changed on disk misses the cache.
package cache

import "time"

// Entry is one cached fingerprint record.
type Entry struct {
	PHash  uint64
	DHash  uint64
	Width  int
	Height int
}

// Store is the persistence backend for fingerprint entries.
type Store interface {
	// Get returns the cached entry for path if it was stored with the same
	// modification time.
	Get(path string, modTime time.Time) (Entry, bool, error)

	// Put stores or replaces the entry for path.
	Put(path string, modTime time.Time, entry Entry) error

	Close() error
}
