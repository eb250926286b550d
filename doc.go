// Package blobcache provides a two-tier (memory + disk) cache for binary
// blobs, images, and JSON record collections, keyed by identifiers derived
// from logical paths or URLs.
//
// Keys normalize arbitrary paths and URLs into stable, filesystem-safe
// identifiers. Blobs live on disk under the cache root and in a bounded
// in-memory LRU; record collections are stored as whole JSON documents and
// mutated with read-modify-write operations.
//
// Basic usage:
//
//	c, _ := blobcache.Open(blobcache.WithDir("/tmp/cache"))
//	defer c.Close()
//
//	// Store and retrieve raw bytes
//	key := blobcache.FromPath("avatars/alice.png")
//	c.Put(key, data)
//	data, _ := c.Get(key)
//
//	// Keys derived from URLs collapse scheme and fragment
//	key, _ = blobcache.ParseURL("https://example.com/img/logo.png?v=2")
//
//	// Record collections under a single key
//	feed := blobcache.NewRecords[Post](c)
//	feed.SaveMany(key, posts)
//	feed.Append(key, more)
//	feed.RemoveByID(key, "post-42")
//	posts, _ = feed.Get(key)
//
//	// Bulk invalidation of a key namespace
//	c.RemoveSubtree("avatars")
//
// The cache provides no cross-process locking; two processes sharing one
// cache directory can race. Within a process, record mutations on the same
// key are serialized per Records instance.
package blobcache
