package blobcache

import (
	"io"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// Defaults for Open.
const (
	DefaultMemoryEntries = 256
	DefaultConcurrency   = 4
)

// Options configures a Cache.
type Options struct {
	Dir              string
	Backend          Backend
	MemoryEntries    int
	Concurrency      int
	CompressionLevel int // 0 disables compression
	Codec            ImageCodec
	Logger           *log.Logger
}

// Option is a functional option for configuring Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Dir:           defaultCacheDir(),
		MemoryEntries: DefaultMemoryEntries,
		Concurrency:   DefaultConcurrency,
		Logger:        log.New(io.Discard),
	}
}

// WithDir sets the cache root directory.
func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// WithBackend injects a storage backend, replacing the default disk store.
// WithDir and WithCompression have no effect when a backend is injected.
func WithBackend(b Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithMemoryEntries bounds the in-memory tier (entries, not bytes).
func WithMemoryEntries(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MemoryEntries = n
		}
	}
}

// WithConcurrency sets the number of goroutines serving async writes.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithCompression enables zstd compression of stored bytes (level 1-3).
// Enabling it trades the plain-JSON on-disk document format for smaller
// files; caches written with compression must be read with it.
func WithCompression(level int) Option {
	return func(o *Options) { o.CompressionLevel = level }
}

// WithCodec sets the image codec used by PutImage and GetImage.
func WithCodec(codec ImageCodec) Option {
	return func(o *Options) { o.Codec = codec }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func defaultCacheDir() string {
	scope := gap.NewScope(gap.User, "blobcache")
	if dir, err := scope.CacheDir(); err == nil && dir != "" {
		return dir
	}
	return ".blobcache"
}
