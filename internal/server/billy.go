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
	"path"
	"time"

	billy "github.com/go-git/go-billy/v5"
	nfsfile "github.com/willscott/go-nfs/file"

	"memfs/internal/common"
	"memfs/internal/storage"
	"memfs/internal/vfs"
)

// BillyAdapter exposes the inode-addressed engine as a path-addressed Billy
// filesystem for the NFS layer. Every path is walked component by component
// from the root inode; the engine itself never sees a path.
type BillyAdapter struct {
	fs  *vfs.MemFS
	uid uint32 // cached engine owner, stamped on everything created here
	gid uint32
}

// NewBillyAdapter creates a Billy adapter for a MemFS engine.
func NewBillyAdapter(fs *vfs.MemFS) *BillyAdapter {
	uid, gid := fs.DefaultOwner()
	return &BillyAdapter{fs: fs, uid: uid, gid: gid}
}

// toOSErr translates engine errors into the os sentinel errors the Billy
// consumers (and go-nfs's status mapping) understand.
func toOSErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case common.IsNotFound(err):
		return os.ErrNotExist
	case common.IsExists(err):
		return os.ErrExist
	case common.IsAccessDenied(err):
		return os.ErrPermission
	}
	return err
}

// resolve walks filename from the root and returns the entry it lands on.
func (b *BillyAdapter) resolve(filename string) (vfs.Entry, error) {
	e, err := b.fs.Getattr(storage.RootIno)
	if err != nil {
		return vfs.Entry{}, toOSErr(err)
	}
	for _, part := range common.SplitPath(filename) {
		e, err = b.fs.Lookup(e.Attr.Ino, part)
		if err != nil {
			return vfs.Entry{}, toOSErr(err)
		}
	}
	return e, nil
}

// resolveParent walks to the directory holding filename's last component.
func (b *BillyAdapter) resolveParent(filename string) (storage.Ino, string, error) {
	name := common.BaseName(filename)
	if name == "" {
		return storage.BadIno, "", os.ErrInvalid
	}
	parent, err := b.resolve(common.ParentPath(filename))
	if err != nil {
		return storage.BadIno, "", err
	}
	return parent.Attr.Ino, name, nil
}

func (b *BillyAdapter) Create(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
}

func (b *BillyAdapter) Open(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDONLY, 0)
}

func (b *BillyAdapter) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	e, err := b.resolve(filename)
	if os.IsNotExist(err) && flag&os.O_CREATE != 0 {
		parent, name, perr := b.resolveParent(filename)
		if perr != nil {
			return nil, perr
		}
		e, err = b.fs.Create(parent, name, b.uid, b.gid)
		if err != nil {
			return nil, toOSErr(err)
		}
	} else if err != nil {
		return nil, err
	} else if flag&os.O_TRUNC != 0 {
		if _, err := b.fs.Write(e.Attr.Ino, 0, nil); err != nil {
			return nil, toOSErr(err)
		}
	}
	return &BillyFile{adapter: b, ino: e.Attr.Ino, name: filename, flags: flag}, nil
}

func (b *BillyAdapter) Stat(filename string) (os.FileInfo, error) {
	e, err := b.resolve(filename)
	if err != nil {
		return nil, err
	}
	return &BillyFileInfo{name: path.Base(path.Clean("/" + filename)), attr: e.Attr}, nil
}

// Lstat and Stat are identical: the engine never follows symlinks, the
// kernel client does.
func (b *BillyAdapter) Lstat(filename string) (os.FileInfo, error) {
	return b.Stat(filename)
}

// Rename is composed from link + unlink at the boundary: the engine has no
// rename transition of its own. An existing destination is unlinked first so
// the call overwrites like os.Rename.
func (b *BillyAdapter) Rename(oldpath, newpath string) error {
	e, err := b.resolve(oldpath)
	if err != nil {
		return err
	}
	newParent, newName, err := b.resolveParent(newpath)
	if err != nil {
		return err
	}
	oldParent, oldName, err := b.resolveParent(oldpath)
	if err != nil {
		return err
	}
	if newParent == oldParent && newName == oldName {
		return nil
	}
	if _, err := b.fs.Lookup(newParent, newName); err == nil {
		if err := b.fs.Unlink(newParent, newName); err != nil {
			return toOSErr(err)
		}
	}
	if _, err := b.fs.Link(e.Attr.Ino, newParent, newName); err != nil {
		return toOSErr(err)
	}
	if err := b.fs.Unlink(oldParent, oldName); err != nil {
		return toOSErr(err)
	}
	return nil
}

func (b *BillyAdapter) Remove(filename string) error {
	parent, name, err := b.resolveParent(filename)
	if err != nil {
		return err
	}
	return toOSErr(b.fs.Unlink(parent, name))
}

func (b *BillyAdapter) Join(elem ...string) string {
	return path.Join(elem...)
}

func (b *BillyAdapter) TempFile(dir, prefix string) (billy.File, error) {
	return nil, os.ErrInvalid
}

func (b *BillyAdapter) ReadDir(dirname string) ([]os.FileInfo, error) {
	e, err := b.resolve(dirname)
	if err != nil {
		return nil, err
	}
	entries, err := b.fs.Readdir(e.Attr.Ino, 0)
	if err != nil {
		return nil, toOSErr(err)
	}

	var result []os.FileInfo
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		child, err := b.fs.Getattr(entry.Ino)
		if err != nil {
			continue
		}
		result = append(result, &BillyFileInfo{name: entry.Name, attr: child.Attr})
	}
	return result, nil
}

func (b *BillyAdapter) MkdirAll(filename string, perm os.FileMode) error {
	parent := storage.RootIno
	for _, part := range common.SplitPath(filename) {
		e, err := b.fs.Lookup(parent, part)
		if common.IsNotFound(err) {
			e, err = b.fs.Mkdir(parent, part, b.uid, b.gid)
		}
		if err != nil {
			return toOSErr(err)
		}
		parent = e.Attr.Ino
	}
	return nil
}

func (b *BillyAdapter) Symlink(target, link string) error {
	parent, name, err := b.resolveParent(link)
	if err != nil {
		return err
	}
	_, err = b.fs.Symlink(parent, name, target, b.uid, b.gid)
	return toOSErr(err)
}

func (b *BillyAdapter) Readlink(link string) (string, error) {
	e, err := b.resolve(link)
	if err != nil {
		return "", err
	}
	target, err := b.fs.Readlink(e.Attr.Ino)
	return target, toOSErr(err)
}

func (b *BillyAdapter) Chroot(path string) (billy.Filesystem, error) {
	return nil, os.ErrInvalid
}

func (b *BillyAdapter) Root() string {
	return "/"
}

// billy.Change interface. Modes are fixed at creation, so Chmod routes
// through setattr where the mode field is accepted and dropped.
func (b *BillyAdapter) Chmod(name string, mode os.FileMode) error {
	e, err := b.resolve(name)
	if err != nil {
		return err
	}
	m := uint32(mode) & 0777
	_, err = b.fs.Setattr(e.Attr.Ino, vfs.SetattrRequest{Mode: &m})
	return toOSErr(err)
}

func (b *BillyAdapter) Chown(name string, uid, gid int) error {
	e, err := b.resolve(name)
	if err != nil {
		return err
	}
	u, g := uint32(uid), uint32(gid)
	_, err = b.fs.Setattr(e.Attr.Ino, vfs.SetattrRequest{UID: &u, GID: &g})
	return toOSErr(err)
}

func (b *BillyAdapter) Lchown(name string, uid, gid int) error {
	return b.Chown(name, uid, gid)
}

func (b *BillyAdapter) Chtimes(name string, atime, mtime time.Time) error {
	e, err := b.resolve(name)
	if err != nil {
		return err
	}
	_, err = b.fs.Setattr(e.Attr.Ino, vfs.SetattrRequest{Mtime: &mtime, Atime: &atime})
	return toOSErr(err)
}

func (b *BillyAdapter) Capabilities() billy.Capability {
	return billy.WriteCapability | billy.ReadCapability |
		billy.ReadAndWriteCapability | billy.SeekCapability | billy.TruncateCapability
}

// BillyFile is an open-file view over one inode. The engine has no handle
// concept; the file only tracks a read/write offset for the Billy callers.
type BillyFile struct {
	adapter *BillyAdapter
	ino     storage.Ino
	name    string
	flags   int
	offset  int64
}

func (f *BillyFile) Name() string {
	return f.name
}

// Write hands the buffer to the engine, which replaces the file content in
// full regardless of the current offset.
func (f *BillyFile) Write(p []byte) (n int, err error) {
	written, err := f.adapter.fs.Write(f.ino, uint64(f.offset), p)
	if err != nil {
		return 0, toOSErr(err)
	}
	f.offset += int64(written)
	return int(written), nil
}

// Read windows the full stored buffer at the current offset. Offset and
// length slicing happens here; the engine always returns everything.
func (f *BillyFile) Read(p []byte) (n int, err error) {
	n, err = f.readAt(p, f.offset)
	if err == nil {
		f.offset += int64(n)
	}
	return
}

func (f *BillyFile) ReadAt(p []byte, off int64) (n int, err error) {
	return f.readAt(p, off)
}

func (f *BillyFile) readAt(p []byte, off int64) (int, error) {
	data, err := f.adapter.fs.Read(f.ino)
	if err != nil {
		return 0, toOSErr(err)
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if off+int64(n) == int64(len(data)) && n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *BillyFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.offset = offset
	case io.SeekCurrent:
		f.offset += offset
	case io.SeekEnd:
		e, err := f.adapter.fs.Getattr(f.ino)
		if err != nil {
			return 0, toOSErr(err)
		}
		f.offset = int64(e.Attr.Size) + offset
	}
	return f.offset, nil
}

func (f *BillyFile) Close() error {
	return nil
}

func (f *BillyFile) Lock() error {
	return nil
}

func (f *BillyFile) Unlock() error {
	return nil
}

func (f *BillyFile) Truncate(size int64) error {
	s := uint64(size)
	_, err := f.adapter.fs.Setattr(f.ino, vfs.SetattrRequest{Size: &s})
	return toOSErr(err)
}

// BillyFileInfo carries one attribute snapshot.
type BillyFileInfo struct {
	name string
	attr storage.Attr
}

func (fi *BillyFileInfo) Name() string {
	return fi.name
}

func (fi *BillyFileInfo) Size() int64 {
	return int64(fi.attr.Size)
}

func (fi *BillyFileInfo) Mode() os.FileMode {
	perm := os.FileMode(fi.attr.Mode & 0777)
	switch fi.attr.Kind {
	case storage.KindDirectory:
		return os.ModeDir | perm
	case storage.KindSymlink:
		return os.ModeSymlink | perm
	}
	return perm
}

func (fi *BillyFileInfo) ModTime() time.Time {
	return fi.attr.Mtime
}

func (fi *BillyFileInfo) IsDir() bool {
	return fi.attr.Kind == storage.KindDirectory
}

// Sys returns file.FileInfo from the go-nfs/file package; its GetInfo() only
// recognizes that type, and without it the server invents inode numbers.
func (fi *BillyFileInfo) Sys() interface{} {
	return &nfsfile.FileInfo{
		Nlink:  fi.attr.Nlink,
		UID:    fi.attr.UID,
		GID:    fi.attr.GID,
		Fileid: uint64(fi.attr.Ino),
	}
}
