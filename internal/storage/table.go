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

package storage

import (
	"time"

	log "github.com/sirupsen/logrus"

	"memfs/internal/common"
)

// InodeTable owns every inode and is the single source of truth for
// existence. It maintains the invariants:
//
//   - nlink == len(link entries) for every inode
//   - (parent, name) pairs are unique across the whole table
//   - an inode is present iff its entry set is non-empty, except the root,
//     which keeps a synthetic entry and is never destroyed
//
// The table carries no locking; the dispatcher serializes access.
type InodeTable struct {
	inodes map[Ino]*Inode

	// next is a strictly monotonic allocator seeded above the reserved
	// numbers (0 = bad block, 1 = root), so inode numbers never collide
	// no matter how quickly allocations arrive.
	next Ino

	now func() time.Time
}

// NewInodeTable creates a table holding only the root directory (inode 1),
// owned by uid/gid, reachable through its synthetic "/" entry.
func NewInodeTable(uid, gid uint32) *InodeTable {
	t := &InodeTable{
		inodes: make(map[Ino]*Inode),
		next:   RootIno + 1,
		now:    time.Now,
	}
	root := t.newInode(RootIno, KindDirectory, uid, gid, 0)
	root.links = []LinkEntry{{Parent: BadIno, Name: "/"}}
	root.Nlink = 1
	t.inodes[RootIno] = root
	return t
}

func (t *InodeTable) newInode(ino Ino, kind Kind, uid, gid uint32, size uint64) *Inode {
	now := t.now()
	return &Inode{
		Ino:    ino,
		Kind:   kind,
		Mode:   kind.DefaultMode(),
		UID:    uid,
		GID:    gid,
		Size:   size,
		Atime:  now,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
}

// Allocate produces a fresh inode with kind defaults and zero link entries.
// The caller must add the first entry; until then the inode is unreachable.
func (t *InodeTable) Allocate(kind Kind, uid, gid uint32, size uint64) Ino {
	ino := t.next
	t.next++
	t.inodes[ino] = t.newInode(ino, kind, uid, gid, size)
	log.Debugf("[TABLE] allocate ino=%d kind=%s uid=%d gid=%d", ino, kind, uid, gid)
	return ino
}

// Get returns the live inode, or common.ErrNotFound.
func (t *InodeTable) Get(ino Ino) (*Inode, error) {
	i, ok := t.inodes[ino]
	if !ok {
		return nil, common.ErrNotFound
	}
	return i, nil
}

// Len returns the number of inodes in the table, the root included.
func (t *InodeTable) Len() int {
	return len(t.inodes)
}

// Update applies the non-nil fields of upd and bumps the generation.
// Absent inodes report common.ErrAccessDenied: mutating missing state is a
// state error, not a lookup miss.
func (t *InodeTable) Update(ino Ino, upd *InodeUpdate) (*Inode, error) {
	i, ok := t.inodes[ino]
	if !ok {
		return nil, common.ErrAccessDenied
	}
	if upd.Size != nil {
		i.Size = *upd.Size
	}
	if upd.UID != nil {
		i.UID = *upd.UID
	}
	if upd.GID != nil {
		i.GID = *upd.GID
	}
	if upd.Mtime != nil {
		i.Mtime = *upd.Mtime
	}
	if upd.Flags != nil {
		i.Flags = *upd.Flags
	}
	i.Generation++
	return i, nil
}

// Resolve finds the inode a (parent, name) entry points at.
func (t *InodeTable) Resolve(parent Ino, name string) (Ino, bool) {
	for ino, i := range t.inodes {
		for _, l := range i.links {
			if l.Parent == parent && l.Name == name {
				return ino, true
			}
		}
	}
	return BadIno, false
}

// AddLink appends a (parent, name) entry to an inode, incrementing its link
// count and generation. The pair must be free table-wide, whether the
// collision would be with this inode or another one.
func (t *InodeTable) AddLink(ino, parent Ino, name string) error {
	if name == "" {
		return common.ErrInvalidArgument
	}
	i, ok := t.inodes[ino]
	if !ok {
		return common.ErrNotFound
	}
	if _, taken := t.Resolve(parent, name); taken {
		return common.ErrExists
	}
	i.links = append(i.links, LinkEntry{Parent: parent, Name: name})
	i.Nlink++
	i.Generation++
	log.Debugf("[TABLE] link ino=%d parent=%d name=%q nlink=%d", ino, parent, name, i.Nlink)
	return nil
}

// RemoveLink deletes the (parent, name) entry wherever it lives, decrements
// the link count and bumps the generation. When the entry set becomes empty
// the inode is destroyed and destroyed=true is returned so the caller can
// drop its content. A missing entry reports common.ErrAccessDenied.
//
// The root's synthetic entry is not removable.
func (t *InodeTable) RemoveLink(parent Ino, name string) (ino Ino, destroyed bool, err error) {
	for candidate, i := range t.inodes {
		for idx, l := range i.links {
			if l.Parent != parent || l.Name != name {
				continue
			}
			if candidate == RootIno {
				return BadIno, false, common.ErrAccessDenied
			}
			i.links = append(i.links[:idx], i.links[idx+1:]...)
			i.Nlink--
			i.Generation++
			if len(i.links) == 0 {
				delete(t.inodes, candidate)
				log.Debugf("[TABLE] destroy ino=%d (last link %q removed)", candidate, name)
				return candidate, true, nil
			}
			log.Debugf("[TABLE] unlink ino=%d parent=%d name=%q nlink=%d", candidate, parent, name, i.Nlink)
			return candidate, false, nil
		}
	}
	return BadIno, false, common.ErrAccessDenied
}
