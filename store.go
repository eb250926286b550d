package blobcache

import "github.com/aweris/blobcache/internal/storage"

// Backend is the byte storage collaborator consumed by the cache.
// Re-exported from internal/storage for convenience.
type Backend = storage.Backend
