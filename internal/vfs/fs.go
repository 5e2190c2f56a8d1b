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

package vfs

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"memfs/internal/common"
	"memfs/internal/storage"
)

// defaultAttrTTL is how long clients may cache attribute replies. The value
// is fixed per filesystem instance, never computed per reply.
const defaultAttrTTL = time.Second

// Options configure a MemFS instance.
type Options struct {
	// UID and GID stamp the root directory and every inode created without
	// an explicit owner.
	UID uint32
	GID uint32

	// AttrTTL overrides the attribute cache TTL. Zero means defaultAttrTTL.
	AttrTTL time.Duration
}

// MemFS is the in-memory filesystem engine: an inode table, a directory
// index over it, and a content store, with every operation dispatched under
// one mutex. All state lives on the heap and is gone when the process exits.
type MemFS struct {
	mu      sync.Mutex
	table   *storage.InodeTable
	index   *storage.DirIndex
	content *storage.ContentStore

	uid uint32
	gid uint32
	ttl time.Duration
}

// NewMemFS creates an engine holding only the root directory.
func NewMemFS(opts Options) *MemFS {
	ttl := opts.AttrTTL
	if ttl == 0 {
		ttl = defaultAttrTTL
	}
	table := storage.NewInodeTable(opts.UID, opts.GID)
	return &MemFS{
		table:   table,
		index:   storage.NewDirIndex(table),
		content: storage.NewContentStore(),
		uid:     opts.UID,
		gid:     opts.GID,
		ttl:     ttl,
	}
}

// AttrTTL returns the attribute cache TTL handed out with every reply.
func (fs *MemFS) AttrTTL() time.Duration {
	return fs.ttl
}

// DefaultOwner returns the uid/gid the root directory was stamped with.
func (fs *MemFS) DefaultOwner() (uint32, uint32) {
	return fs.uid, fs.gid
}

func (fs *MemFS) entry(i *storage.Inode) Entry {
	return Entry{Attr: i.Attr(), Generation: i.Generation, Valid: fs.ttl}
}

// Getattr returns the attributes of an inode.
func (fs *MemFS) Getattr(ino storage.Ino) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, err := fs.table.Get(ino)
	if err != nil {
		log.Debugf("[FS] getattr ino=%d: not found", ino)
		return Entry{}, err
	}
	return fs.entry(i), nil
}

// Lookup resolves name under parent.
func (fs *MemFS) Lookup(parent storage.Ino, name string) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ino, ok := fs.index.Resolve(parent, name)
	if !ok {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debugf("[FS] lookup parent=%d name=%q: not found", parent, name)
		}
		return Entry{}, common.ErrNotFound
	}
	i, err := fs.table.Get(ino)
	if err != nil {
		return Entry{}, err
	}
	return fs.entry(i), nil
}

// Readdir lists a directory. Listings are single-shot: any non-zero offset
// means the client already consumed the listing and gets an empty page; a
// restart at offset 0 returns the full page, "." and ".." first and then the
// children in name order, with entry offsets counting up from 0.
func (fs *MemFS) Readdir(dir storage.Ino, offset uint64) ([]DirEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, err := fs.table.Get(dir)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		return nil, nil
	}

	entries := []DirEntry{
		{Ino: dir, Offset: 0, Kind: storage.KindDirectory, Name: "."},
		{Ino: fs.index.Parent(dir), Offset: 1, Kind: storage.KindDirectory, Name: ".."},
	}
	for idx, child := range fs.index.Children(dir) {
		entries = append(entries, DirEntry{
			Ino:    child.Ino,
			Offset: uint64(idx) + 2,
			Kind:   child.Kind,
			Name:   child.Name,
		})
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("[FS] readdir ino=%d kind=%s entries=%d", dir, i.Kind, len(entries))
	}
	return entries, nil
}

// Create makes a regular file named name under parent, owned by uid/gid.
func (fs *MemFS) Create(parent storage.Ino, name string, uid, gid uint32) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.createNode(storage.KindRegular, parent, name, uid, gid, 0)
}

// Mkdir makes a directory named name under parent, owned by uid/gid.
func (fs *MemFS) Mkdir(parent storage.Ino, name string, uid, gid uint32) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.createNode(storage.KindDirectory, parent, name, uid, gid, 0)
}

// Symlink makes a symbolic link named name under parent pointing at target.
func (fs *MemFS) Symlink(parent storage.Ino, name, target string, uid, gid uint32) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.createNode(storage.KindSymlink, parent, name, uid, gid, uint64(len(target)))
	if err != nil {
		return Entry{}, err
	}
	fs.content.Set(e.Attr.Ino, []byte(target))
	return e, nil
}

// createNode allocates an inode and gives it its first directory entry.
// The entry bump takes the generation from 0 to 1, so every freshly created
// object starts life at generation 1. Callers hold fs.mu.
func (fs *MemFS) createNode(kind storage.Kind, parent storage.Ino, name string, uid, gid uint32, size uint64) (Entry, error) {
	if _, taken := fs.index.Resolve(parent, name); taken {
		log.Debugf("[FS] create parent=%d name=%q: exists", parent, name)
		return Entry{}, common.ErrExists
	}
	ino := fs.table.Allocate(kind, uid, gid, size)
	if err := fs.table.AddLink(ino, parent, name); err != nil {
		return Entry{}, err
	}
	i, err := fs.table.Get(ino)
	if err != nil {
		return Entry{}, err
	}
	log.Debugf("[FS] create kind=%s ino=%d parent=%d name=%q", kind, ino, parent, name)
	return fs.entry(i), nil
}

// Setattr updates inode attributes. Size, uid, gid, mtime and flags apply;
// everything else in the request is dropped. Setattr on an absent inode is
// an access error, not a lookup miss.
func (fs *MemFS) Setattr(ino storage.Ino, req SetattrRequest) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	upd := storage.InodeUpdate{
		Size:  req.Size,
		UID:   req.UID,
		GID:   req.GID,
		Mtime: req.Mtime,
		Flags: req.Flags,
	}
	i, err := fs.table.Update(ino, &upd)
	if err != nil {
		log.Debugf("[FS] setattr ino=%d: %v", ino, err)
		return Entry{}, err
	}
	return fs.entry(i), nil
}

// Write replaces the content of a regular file with data. The offset is
// accepted and ignored: every write is a whole-file replacement, and the
// reported count is always len(data) so writers never see a short write.
func (fs *MemFS) Write(ino storage.Ino, offset uint64, data []byte) (uint32, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, err := fs.table.Get(ino)
	if err == nil && i.IsFile() {
		fs.content.Set(ino, data)
		size := uint64(len(data))
		now := time.Now()
		if _, err := fs.table.Update(ino, &storage.InodeUpdate{Size: &size, Mtime: &now}); err != nil {
			return 0, err
		}
		log.Debugf("[FS] write ino=%d bytes=%d", ino, len(data))
	}
	return uint32(len(data)), nil
}

// Read returns the full content of a regular file. Files created but never
// written read back empty.
func (fs *MemFS) Read(ino storage.Ino) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, err := fs.table.Get(ino)
	if err != nil {
		return nil, common.ErrAccessDenied
	}
	if !i.IsFile() {
		log.Debugf("[FS] read ino=%d kind=%s: not a file", ino, i.Kind)
		return nil, common.ErrAccessDenied
	}
	data, ok := fs.content.Get(ino)
	if !ok {
		return []byte{}, nil
	}
	return data, nil
}

// Readlink returns the target of a symbolic link. Anything that is not a
// symlink with a stored target is denied, missing inodes included.
func (fs *MemFS) Readlink(ino storage.Ino) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, err := fs.table.Get(ino)
	if err != nil {
		return "", common.ErrAccessDenied
	}
	if !i.IsSymlink() {
		log.Debugf("[FS] readlink ino=%d kind=%s: not a symlink", ino, i.Kind)
		return "", common.ErrAccessDenied
	}
	data, ok := fs.content.Get(ino)
	if !ok {
		log.Debugf("[FS] readlink ino=%d: no target stored", ino)
		return "", common.ErrAccessDenied
	}
	return string(data), nil
}

// Link adds a new directory entry for an existing inode. The new (parent,
// name) pair must be free table-wide.
func (fs *MemFS) Link(ino, newparent storage.Ino, newname string) (Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.table.AddLink(ino, newparent, newname); err != nil {
		log.Debugf("[FS] link ino=%d parent=%d name=%q: %v", ino, newparent, newname, err)
		return Entry{}, err
	}
	i, err := fs.table.Get(ino)
	if err != nil {
		return Entry{}, err
	}
	return fs.entry(i), nil
}

// Unlink removes the directory entry (parent, name). When the entry was the
// inode's last one, the inode and its content are destroyed.
func (fs *MemFS) Unlink(parent storage.Ino, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.removeEntry(parent, name)
}

// Rmdir removes a directory entry. It is unlink by another name: there is
// no emptiness check, and a removed directory takes no children with it.
// Children keep their inodes and become unreachable through this parent.
func (fs *MemFS) Rmdir(parent storage.Ino, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.removeEntry(parent, name)
}

func (fs *MemFS) removeEntry(parent storage.Ino, name string) error {
	ino, destroyed, err := fs.table.RemoveLink(parent, name)
	if err != nil {
		log.Debugf("[FS] unlink parent=%d name=%q: %v", parent, name, err)
		return err
	}
	if destroyed {
		fs.content.Remove(ino)
	}
	log.Debugf("[FS] unlink parent=%d name=%q ino=%d destroyed=%v", parent, name, ino, destroyed)
	return nil
}

// InodeCount reports the number of live inodes, root included.
func (fs *MemFS) InodeCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.table.Len()
}
