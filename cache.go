package blobcache

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/aweris/blobcache/internal/compression"
	"github.com/aweris/blobcache/internal/memcache"
	"github.com/aweris/blobcache/internal/storage"
)

// Cache is a two-tier blob cache: a bounded in-memory LRU in front of a
// durable storage backend. Construct one per cache root and pass it to all
// call sites; there is no package-level instance.
//
// Blob operations are safe for concurrent use. Concurrent read-modify-write
// sequences through Records on the same key are serialized per Records
// instance; nothing guards against a second process sharing the directory.
type Cache struct {
	backend Backend
	blobs   *memcache.LRU[[]byte]
	images  *memcache.LRU[image.Image]
	codec   ImageCodec
	writes  *pool.Pool
	logger  *log.Logger

	// set only when Open built the disk backend itself; closed with it
	compressor *compression.Codec
	closeOnce  sync.Once
}

// Open creates or opens a cache. With no options it lives in the user
// cache directory with a default-sized memory tier.
func Open(opts ...Option) (*Cache, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	backend := options.Backend
	var compressor *compression.Codec
	if backend == nil {
		var err error
		compressor, err = compression.New(options.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("create compressor: %w", err)
		}
		disk, err := storage.NewDisk(afero.NewOsFs(), options.Dir, compressor)
		if err != nil {
			compressor.Close()
			return nil, fmt.Errorf("open cache dir: %w", err)
		}
		backend = disk
	}

	blobs, err := memcache.New[[]byte](options.MemoryEntries)
	if err != nil {
		return nil, fmt.Errorf("create memory tier: %w", err)
	}
	images, err := memcache.New[image.Image](options.MemoryEntries)
	if err != nil {
		return nil, fmt.Errorf("create image tier: %w", err)
	}

	codec := options.Codec
	if codec == nil {
		codec = JPEGCodec{}
	}

	return &Cache{
		backend:    backend,
		blobs:      blobs,
		images:     images,
		codec:      codec,
		writes:     pool.New().WithMaxGoroutines(options.Concurrency),
		logger:     options.Logger,
		compressor: compressor,
	}, nil
}

// Put stores raw bytes under the key, unchanged, and populates the memory
// tier on success. Both tiers are addressed by the key's filename so that
// keys sharing an identifier but not an extension, sized variants above
// all, stay independent entries.
func (c *Cache) Put(key Key, data []byte) error {
	name := key.Filename()
	if err := c.backend.Write(name, data); err != nil {
		c.logger.Debug("put failed", "key", name, "err", err)
		return wrapStorage(err)
	}
	c.blobs.Add(name, data)
	c.logger.Debug("put", "key", name, "bytes", len(data))
	return nil
}

// PutAsync stores raw bytes off the caller's path, dispatched on the write
// pool. The returned channel delivers exactly one result; by the time it
// does, the full new content is on disk or the prior content is intact.
func (c *Cache) PutAsync(key Key, data []byte) <-chan error {
	done := make(chan error, 1)
	c.writes.Go(func() {
		done <- c.Put(key, data)
	})
	return done
}

// Get returns the cached bytes for the key, memory tier first. A disk hit
// populates the memory tier. Returns ErrNotFound when neither tier has it.
func (c *Cache) Get(key Key) ([]byte, error) {
	name := key.Filename()
	if data, ok := c.blobs.Get(name); ok {
		c.logger.Debug("memory hit", "key", name)
		return data, nil
	}
	data, err := c.backend.Read(name)
	if err != nil {
		c.logger.Debug("miss", "key", name)
		return nil, wrapStorage(err)
	}
	c.blobs.Add(name, data)
	c.logger.Debug("disk hit", "key", name)
	return data, nil
}

// Contains reports whether the key has an entry in either tier, without
// reading disk bytes.
func (c *Cache) Contains(key Key) bool {
	if c.blobs.Has(key.Filename()) {
		return true
	}
	_, ok := c.backend.Stat(key.Filename())
	return ok
}

// PutImage re-encodes a decoded image through the codec and stores it.
func (c *Cache) PutImage(key Key, img image.Image) error {
	data, err := c.codec.Encode(img)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	if err := c.Put(key, data); err != nil {
		return err
	}
	c.images.Add(key.Filename(), img)
	return nil
}

// GetImage returns the decoded image for the key. Decoded images are cached
// in their own memory tier, so repeated gets skip the codec.
func (c *Cache) GetImage(key Key) (image.Image, error) {
	if img, ok := c.images.Get(key.Filename()); ok {
		return img, nil
	}
	data, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	img, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	c.images.Add(key.Filename(), img)
	return img, nil
}

// Delete removes the key from both tiers. Returns ErrNotFound when no disk
// entry existed.
func (c *Cache) Delete(key Key) error {
	c.blobs.Remove(key.Filename())
	c.images.Remove(key.Filename())
	if err := c.backend.Remove(key.Filename()); err != nil {
		return wrapStorage(err)
	}
	return nil
}

// RemoveSubtree deletes every entry under the logical prefix and drops both
// memory tiers, since membership under a prefix is not tracked per entry.
// An absent prefix is a no-op.
func (c *Cache) RemoveSubtree(prefix string) error {
	if err := c.backend.RemoveSubtree(prefix); err != nil {
		return wrapStorage(err)
	}
	c.blobs.Clear()
	c.images.Clear()
	c.logger.Debug("removed subtree", "prefix", prefix)
	return nil
}

// Dir resolves a logical path to its location under the cache root, for
// callers that need to address storage directly.
func (c *Cache) Dir(path string) string {
	return c.backend.Path(path)
}

// Close drains pending async writes and releases the compression codec
// when Open created it. Safe to call more than once.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		c.writes.Wait()
		if c.compressor != nil {
			c.compressor.Close()
		}
	})
	return nil
}

func wrapStorage(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
