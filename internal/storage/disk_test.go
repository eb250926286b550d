package storage

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweris/blobcache/internal/compression"
)

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(afero.NewMemMapFs(), "/cache", nil)
	require.NoError(t, err)
	return d
}

func TestDiskWriteRead(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Write("nested/dir/entry.json", []byte("content")))

	got, err := d.Read("nested/dir/entry.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), got)
}

func TestDiskOverwriteReplaces(t *testing.T) {
	// MemMapFs refuses to rename over a file, so this also exercises the
	// remove-and-retry fallback.
	d := newTestDisk(t)

	require.NoError(t, d.Write("entry.json", []byte("first")))
	require.NoError(t, d.Write("entry.json", []byte("second")))

	got, err := d.Read("entry.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestDiskOverwriteOnOsFs(t *testing.T) {
	// The OS filesystem takes the direct-rename path, replacing prior
	// content atomically without an intermediate remove.
	d, err := NewDisk(afero.NewOsFs(), t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, d.Write("nested/entry.json", []byte("first")))
	require.NoError(t, d.Write("nested/entry.json", []byte("second")))

	got, err := d.Read("nested/entry.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	infos, err := afero.ReadDir(afero.NewOsFs(), d.Path("nested"))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "entry.json", infos[0].Name())
}

func TestDiskReadMissing(t *testing.T) {
	d := newTestDisk(t)

	_, err := d.Read("absent.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiskRemove(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Write("entry.json", []byte("content")))
	require.NoError(t, d.Remove("entry.json"))

	_, err := d.Read("entry.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, d.Remove("entry.json"), ErrNotFound)
}

func TestDiskRemoveSubtree(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Write("avatars/small/a.png", []byte("a")))
	require.NoError(t, d.Write("avatars/large/a.png", []byte("a")))
	require.NoError(t, d.Write("posts/p.json", []byte("p")))

	require.NoError(t, d.RemoveSubtree("avatars"))

	_, err := d.Read("avatars/small/a.png")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = d.Read("posts/p.json")
	require.NoError(t, err)

	// Absent prefix is success, not an error.
	require.NoError(t, d.RemoveSubtree("avatars"))
}

func TestDiskWriteLeavesNoStagingFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	d, err := NewDisk(fsys, "/cache", nil)
	require.NoError(t, err)

	require.NoError(t, d.Write("dir/entry.json", []byte("content")))

	infos, err := afero.ReadDir(fsys, "/cache/dir")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "entry.json", infos[0].Name())
}

func TestDiskStat(t *testing.T) {
	d := newTestDisk(t)

	_, ok := d.Stat("entry.json")
	assert.False(t, ok)

	require.NoError(t, d.Write("entry.json", []byte("12345")))

	size, ok := d.Stat("entry.json")
	assert.True(t, ok)
	assert.Equal(t, int64(5), size)
}

func TestDiskCompressedRoundTrip(t *testing.T) {
	codec, err := compression.New(2)
	require.NoError(t, err)
	defer codec.Close()

	d, err := NewDisk(afero.NewMemMapFs(), "/cache", codec)
	require.NoError(t, err)

	payload := []byte(strings.Repeat("repetitive payload ", 200))
	require.NoError(t, d.Write("entry.bin", payload))

	got, err := d.Read("entry.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	size, ok := d.Stat("entry.bin")
	require.True(t, ok)
	assert.Less(t, size, int64(len(payload)))
}

func TestDiskPath(t *testing.T) {
	d := newTestDisk(t)
	assert.Equal(t, "/cache/a/b.json", d.Path("a/b.json"))
}
