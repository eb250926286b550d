package blobcache

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		identifier string
		extension  string
		filename   string
	}{
		{
			name:       "simple extension",
			path:       "avatars/alice.png",
			identifier: "avatars/alice",
			extension:  "png",
			filename:   "avatars/alice.png",
		},
		{
			name:       "multiple dots joined without them",
			path:       "archive.tar.gz",
			identifier: "archivetar",
			extension:  "gz",
			filename:   "archivetar.gz",
		},
		{
			name:       "no extension defaults at filename time",
			path:       "feed/home",
			identifier: "feed/home",
			extension:  "",
			filename:   "feed/home.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := FromPath(tt.path)
			assert.Equal(t, tt.identifier, key.Identifier)
			assert.Equal(t, tt.extension, key.Extension)
			assert.Equal(t, tt.filename, key.Filename())
		})
	}
}

func TestFromPathSized(t *testing.T) {
	small := FromPathSized("img/x.png", 10, 20)
	large := FromPathSized("img/x.png", 30, 40)

	// The size suffix lands after the extension dot, so the stored
	// filenames differ even though the identifiers agree.
	assert.NotEqual(t, small.Filename(), large.Filename())
	assert.Equal(t, "img/x.png-10-20", small.Filename())

	noExt := FromPathSized("img/x", 10, 20)
	assert.Equal(t, "img/x-10-20", noExt.Identifier)
}

func TestFromURL(t *testing.T) {
	mustKey := func(raw string) Key {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return FromURL(u)
	}

	t.Run("scheme and fragment ignored", func(t *testing.T) {
		a := mustKey("https://a.com/x?q=1")
		b := mustKey("http://a.com/x?q=1#frag")
		assert.True(t, a.Equal(b))
	})

	t.Run("host path and query are significant", func(t *testing.T) {
		base := mustKey("https://a.com/x?q=1")
		assert.False(t, base.Equal(mustKey("https://b.com/x?q=1")))
		assert.False(t, base.Equal(mustKey("https://a.com/y?q=1")))
		assert.False(t, base.Equal(mustKey("https://a.com/x?q=2")))
	})

	t.Run("identifier is filesystem safe", func(t *testing.T) {
		key := mustKey("https://a.com/some/deep%20path/img.png?size=big&v=2")
		assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9-]+$`), key.Identifier)
		assert.NotContains(t, key.Identifier, "--")
	})

	t.Run("extension from url path", func(t *testing.T) {
		key := mustKey("https://a.com/img/logo.png?v=2")
		assert.Equal(t, "png", key.Extension)
	})

	t.Run("generic extension fallback", func(t *testing.T) {
		key := mustKey("https://a.com/x?q=1")
		assert.Equal(t, "dat", key.Extension)
	})

	t.Run("degenerate url gets a fresh identifier per call", func(t *testing.T) {
		u := &url.URL{Scheme: "mailto", Opaque: "user@example.com"}
		a := FromURL(u)
		b := FromURL(u)
		assert.NotEmpty(t, a.Identifier)
		assert.NotEmpty(t, b.Identifier)
		assert.False(t, a.Equal(b))
	})
}

func TestParseURL(t *testing.T) {
	key, err := ParseURL("https://a.com/img.png")
	require.NoError(t, err)
	assert.Equal(t, "png", key.Extension)

	_, err = ParseURL("://missing-scheme")
	require.Error(t, err)
}

func TestKeyEqualIgnoresExtension(t *testing.T) {
	a := Key{Identifier: "same", Extension: "png"}
	b := Key{Identifier: "same", Extension: "dat"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Key{Identifier: "other", Extension: "png"}))
}
