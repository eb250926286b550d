package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/aweris/blobcache/internal/compression"
)

// Disk stores entries as files under a root directory on an afero
// filesystem. Production uses the OS filesystem; tests run on MemMapFs.
type Disk struct {
	fs    afero.Fs
	root  string
	codec *compression.Codec
}

// NewDisk creates a disk backend rooted at root, creating the directory if
// needed. A nil codec stores bytes uncompressed.
func NewDisk(fsys afero.Fs, root string, codec *compression.Codec) (*Disk, error) {
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Disk{fs: fsys, root: root, codec: codec}, nil
}

// Write stages the full content in a temp file next to the destination and
// renames it into place, replacing any prior content. The final name never
// holds a zero-byte or truncated file on failure; a failed write leaves the
// prior bytes where they were.
func (d *Disk) Write(name string, data []byte) error {
	dst := d.Path(name)
	dir := filepath.Dir(dst)
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent dirs: %w", err)
	}

	if d.codec != nil {
		data = d.codec.Encode(data)
	}

	tmp, err := afero.TempFile(d.fs, dir, ".staged-*")
	if err != nil {
		return fmt.Errorf("stage write: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		d.fs.Remove(tmpName)
		return fmt.Errorf("stage write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		d.fs.Remove(tmpName)
		return fmt.Errorf("stage write: %w", err)
	}

	// Rename replaces prior content atomically on the OS filesystem, so a
	// failure up to here leaves the old bytes intact. MemMapFs refuses to
	// rename over an existing file; only then remove the destination and
	// retry.
	if err := d.fs.Rename(tmpName, dst); err != nil {
		if rmErr := d.fs.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
			d.fs.Remove(tmpName)
			return fmt.Errorf("replace prior content: %w", rmErr)
		}
		if err := d.fs.Rename(tmpName, dst); err != nil {
			d.fs.Remove(tmpName)
			return fmt.Errorf("commit write: %w", err)
		}
	}
	return nil
}

// Read retrieves the bytes at name. Returns ErrNotFound when absent.
func (d *Disk) Read(name string) ([]byte, error) {
	data, err := afero.ReadFile(d.fs, d.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if d.codec != nil {
		data = d.codec.Decode(data)
	}
	return data, nil
}

// Remove deletes the entry at name. Returns ErrNotFound when absent.
func (d *Disk) Remove(name string) error {
	err := d.fs.Remove(d.Path(name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// RemoveSubtree deletes everything under the prefix. An absent prefix is a
// no-op.
func (d *Disk) RemoveSubtree(prefix string) error {
	if err := d.fs.RemoveAll(d.Path(prefix)); err != nil {
		return fmt.Errorf("remove subtree %s: %w", prefix, err)
	}
	return nil
}

// Stat reports the entry's size and whether it exists.
func (d *Disk) Stat(name string) (int64, bool) {
	info, err := d.fs.Stat(d.Path(name))
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// Path resolves a name to its location under the root.
func (d *Disk) Path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}
