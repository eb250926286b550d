package blobcache

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultExtension is used by Filename when a key carries no extension.
	DefaultExtension = "jpg"

	// GenericExtension is assigned to URL-derived keys whose URL path has
	// no extension.
	GenericExtension = "dat"
)

// Key identifies a cached entry. Identifier is canonical and filesystem-safe
// as a relative path; Extension is optional and not part of identity.
// Keys are value objects, constructed per call and never persisted.
type Key struct {
	Identifier string
	Extension  string
}

// FromPath derives a key from a logical path. The segment after the last
// "." becomes the extension; the remaining segments are joined without the
// dots to form the identifier. A path without "." has no extension.
// Slashes are preserved and become real subdirectories under the cache root.
func FromPath(p string) Key {
	parts := strings.Split(p, ".")
	if len(parts) < 2 {
		return Key{Identifier: p}
	}
	return Key{
		Identifier: strings.Join(parts[:len(parts)-1], ""),
		Extension:  parts[len(parts)-1],
	}
}

// FromPathSized derives a key for a specific rendering size. The size
// suffix is appended to the raw path before extension splitting, so
// distinct sizes of one logical path cache independently.
func FromPathSized(p string, width, height int) Key {
	return FromPath(fmt.Sprintf("%s-%d-%d", p, width, height))
}

// FromURL derives a key from a URL. Scheme and fragment are ignored: two
// URLs differing only in those collide on purpose. Host, path, and query
// feed the identifier; a URL where all three are empty falls back to a
// freshly generated unique identifier, so repeated calls for such a URL do
// NOT produce equal keys.
func FromURL(u *url.URL) Key {
	var b strings.Builder
	for _, part := range []string{u.Host, u.Path, u.RawQuery} {
		if part != "" {
			b.WriteString(part)
			b.WriteString("/")
		}
	}
	structure := b.String()
	if structure == "" {
		structure = uuid.NewString()
	}

	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		ext = GenericExtension
	}
	return Key{Identifier: sanitize(structure), Extension: ext}
}

// ParseURL is FromURL over a raw URL string.
func ParseURL(raw string) (Key, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Key{}, fmt.Errorf("parse url: %w", err)
	}
	return FromURL(u), nil
}

// Filename returns "identifier.extension", substituting DefaultExtension
// when the key has none.
func (k Key) Filename() string {
	ext := k.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return k.Identifier + "." + ext
}

// Equal compares identifiers only; the extension is not part of identity.
func (k Key) Equal(other Key) bool {
	return k.Identifier == other.Identifier
}

// sanitize maps a URL structure string onto the identifier alphabet:
// "/" and "." become "-", every other non-alphanumeric rune is dropped,
// runs of "-" collapse, and the result carries no leading or trailing "-".
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '.':
			return '-'
		case r == '-',
			r >= '0' && r <= '9',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
			return r
		default:
			return -1
		}
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
