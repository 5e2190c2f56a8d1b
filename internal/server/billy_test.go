// Copyright 2026 MemFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nfsfile "github.com/willscott/go-nfs/file"

	"memfs/internal/vfs"
)

func newAdapter(t *testing.T) *BillyAdapter {
	t.Helper()
	return NewBillyAdapter(vfs.NewMemFS(vfs.Options{UID: 501, GID: 20}))
}

func TestAdapterCreateWriteRead(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, f.Close())

	f, err = b.Open("/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAdapterOpenMissing(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	_, err := b.Open("/ghost")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAdapterCreateTruncatesExisting(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("old content"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = b.Create("/a.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	fi, err := b.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), fi.Size())
}

func TestAdapterReadWindowing(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))

	n, err = f.ReadAt(buf, 8)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)

	_, err = f.ReadAt(buf, 10)
	assert.Equal(t, io.EOF, err)
}

func TestAdapterSeek(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("abcdef"))
	require.NoError(t, err)

	pos, err := f.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	buf := make([]byte, 2)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ef", string(buf))
}

func TestAdapterStat(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)

	fi, err := b.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", fi.Name())
	assert.Equal(t, int64(3), fi.Size())
	assert.False(t, fi.IsDir())
	assert.Equal(t, os.FileMode(0644), fi.Mode())

	sys, ok := fi.Sys().(*nfsfile.FileInfo)
	require.True(t, ok)
	assert.Equal(t, uint32(1), sys.Nlink)
	assert.Equal(t, uint32(501), sys.UID)
	assert.Equal(t, uint32(20), sys.GID)
	assert.NotZero(t, sys.Fileid)
}

func TestAdapterMkdirAll(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	require.NoError(t, b.MkdirAll("/a/b/c", 0755))

	fi, err := b.Stat("/a/b/c")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.Equal(t, os.ModeDir|0755, fi.Mode())

	// Idempotent on existing directories.
	require.NoError(t, b.MkdirAll("/a/b", 0755))
}

func TestAdapterReadDir(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	require.NoError(t, b.MkdirAll("/d", 0755))
	f, err := b.Create("/d/z.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	f, err = b.Create("/d/a.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	infos, err := b.ReadDir("/d")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a.txt", infos[0].Name())
	assert.Equal(t, "z.txt", infos[1].Name())
}

func TestAdapterSymlink(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	require.NoError(t, b.Symlink("/a.txt", "/link1"))

	target, err := b.Readlink("/link1")
	require.NoError(t, err)
	assert.Equal(t, "/a.txt", target)

	fi, err := b.Lstat("/link1")
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, fi.Mode()&os.ModeSymlink)
}

func TestAdapterRename(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/old.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("content"))
	require.NoError(t, err)

	require.NoError(t, b.Rename("/old.txt", "/new.txt"))

	_, err = b.Stat("/old.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	f, err = b.Open("/new.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestAdapterRenameOverwrites(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/src.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("fresh"))
	require.NoError(t, err)

	f, err = b.Create("/dst.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("stale"))
	require.NoError(t, err)

	require.NoError(t, b.Rename("/src.txt", "/dst.txt"))

	_, err = b.Stat("/src.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	f, err = b.Open("/dst.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	// Renaming a name onto itself is a no-op, not a self-destroying unlink.
	require.NoError(t, b.Rename("/dst.txt", "/dst.txt"))
	_, err = b.Stat("/dst.txt")
	assert.NoError(t, err)
}

func TestAdapterRemove(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, b.Remove("/a.txt"))
	_, err = b.Stat("/a.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = b.Remove("/a.txt")
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestAdapterTruncate(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("abcdef"))
	require.NoError(t, err)

	require.NoError(t, f.Truncate(2))

	fi, err := b.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fi.Size())
}

func TestAdapterChownChtimes(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	f, err := b.Create("/a.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, b.Chown("/a.txt", 1000, 1000))
	fi, err := b.Stat("/a.txt")
	require.NoError(t, err)
	sys := fi.Sys().(*nfsfile.FileInfo)
	assert.Equal(t, uint32(1000), sys.UID)
	assert.Equal(t, uint32(1000), sys.GID)

	// Chmod is accepted but the fixed creation mode stays.
	require.NoError(t, b.Chmod("/a.txt", 0777))
	fi, err = b.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), fi.Mode())
}

func TestAdapterStatRoot(t *testing.T) {
	t.Parallel()
	b := newAdapter(t)

	fi, err := b.Stat("/")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	infos, err := b.ReadDir("/")
	require.NoError(t, err)
	assert.Empty(t, infos)
}
