// Package storage implements the durable byte store behind the cache.
//
// Entries are addressed by relative names that may contain "/" separators;
// parents are created on write. Writes stage the full content before it
// becomes visible at the final name, so a failed write never leaves a
// truncated file behind.
package storage

import "errors"

// ErrNotFound reports that no entry exists at the name.
var ErrNotFound = errors.New("storage: not found")

// Backend handles durable byte storage.
type Backend interface {
	// Write stores data at name, replacing any prior content. Parent
	// directories are created as needed.
	Write(name string, data []byte) error

	// Read retrieves the bytes at name. Returns ErrNotFound when absent.
	Read(name string) ([]byte, error)

	// Remove deletes the entry at name. Returns ErrNotFound when absent.
	Remove(name string) error

	// RemoveSubtree deletes everything under the prefix. An absent prefix
	// is success, not ErrNotFound.
	RemoveSubtree(prefix string) error

	// Stat reports the entry's size and whether it exists.
	Stat(name string) (size int64, exists bool)

	// Path resolves a name to its absolute storage location.
	Path(name string) string
}
