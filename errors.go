package blobcache

import "errors"

var (
	// ErrNotFound reports that no blob or document exists at the key.
	ErrNotFound = errors.New("blobcache: not found")

	// ErrDecode reports bytes that do not parse as the requested shape.
	ErrDecode = errors.New("blobcache: decode failed")

	// ErrStorage reports an I/O failure in the storage backend.
	ErrStorage = errors.New("blobcache: storage failure")

	// ErrNotMatched reports a replace target id that matched no record.
	ErrNotMatched = errors.New("blobcache: no record matched")
)
