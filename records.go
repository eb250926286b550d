package blobcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Record is any serializable record carrying a stable cache item id.
// Nothing forbids two records in one document from sharing an id; see
// RemoveByID and ReplaceByID for how matches are scoped.
type Record interface {
	CacheID() string
}

// Records stores ordered collections of records as whole JSON documents,
// one document per key, on top of a Cache. Every mutation is a
// read-modify-write of the full document. Mutations on the same key are
// serialized through a per-instance lock table; two Records instances (or
// two processes) over the same directory still race, last writer wins.
type Records[T Record] struct {
	cache *Cache
	locks sync.Map // identifier -> *sync.Mutex
}

// NewRecords binds a typed record collection to a cache.
func NewRecords[T Record](c *Cache) *Records[T] {
	return &Records[T]{cache: c}
}

// SaveOne stores a single record as a JSON object document, replacing
// whatever the key held. It never merges with prior content.
func (r *Records[T]) SaveOne(key Key, rec T) error {
	defer r.lock(key)()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.cache.Put(key, data)
}

// GetOne reads a single-object document.
func (r *Records[T]) GetOne(key Key) (T, error) {
	var rec T
	data, err := r.cache.Get(key)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return rec, nil
}

// SaveMany stores the sequence as-is, replacing whatever the key held.
// Order is preserved exactly; no deduplication.
func (r *Records[T]) SaveMany(key Key, recs []T) error {
	defer r.lock(key)()
	return r.write(key, recs)
}

// Append concatenates recs after the existing sequence. A key with no
// document is treated as empty, not as an error. Strict tail insertion:
// new records sort after all prior ones regardless of their contents.
func (r *Records[T]) Append(key Key, recs []T) error {
	defer r.lock(key)()
	existing, err := r.load(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.write(key, append(existing, recs...))
}

// Insert concatenates recs before the existing sequence, in the given
// order. Callers wanting a different overall order pre-reverse their
// input. A key with no document is treated as empty.
func (r *Records[T]) Insert(key Key, recs []T) error {
	defer r.lock(key)()
	existing, err := r.load(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	merged := make([]T, 0, len(recs)+len(existing))
	merged = append(merged, recs...)
	merged = append(merged, existing...)
	return r.write(key, merged)
}

// RemoveByID deletes every record whose id matches. Only a missing
// document is a failure; a document with no match is left as-is and
// reported as success.
func (r *Records[T]) RemoveByID(key Key, id string) error {
	defer r.lock(key)()
	existing, err := r.load(key)
	if err != nil {
		return err
	}
	kept := make([]T, 0, len(existing))
	for _, rec := range existing {
		if rec.CacheID() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(existing) {
		return nil
	}
	return r.write(key, kept)
}

// ReplaceByID overwrites the first record whose id matches, preserving its
// position. Returns ErrNotFound when the document is absent and
// ErrNotMatched, with the document untouched, when no record matches.
func (r *Records[T]) ReplaceByID(key Key, id string, rec T) error {
	defer r.lock(key)()
	existing, err := r.load(key)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].CacheID() == id {
			existing[i] = rec
			return r.write(key, existing)
		}
	}
	return ErrNotMatched
}

// Get reads the full sequence. A key that was never saved yields
// ErrNotFound, not an empty collection.
func (r *Records[T]) Get(key Key) ([]T, error) {
	return r.load(key)
}

// Cached is the collapsed convenience surface: any failure, a missing
// document and a corrupt one alike, reads as "no value".
func (r *Records[T]) Cached(key Key) ([]T, bool) {
	recs, err := r.load(key)
	if err != nil {
		return nil, false
	}
	return recs, true
}

func (r *Records[T]) load(key Key) ([]T, error) {
	data, err := r.cache.Get(key)
	if err != nil {
		return nil, err
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return recs, nil
}

func (r *Records[T]) write(key Key, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return r.cache.Put(key, data)
}

// lock serializes mutations per key identifier for this instance.
func (r *Records[T]) lock(key Key) func() {
	v, _ := r.locks.LoadOrStore(key.Identifier, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
