package vfs

import (
	"time"

	"memfs/internal/storage"
)

// Entry is the reply for operations that return a filesystem object: the
// attribute snapshot, the inode's generation at reply time, and how long the
// kernel may cache the attributes.
type Entry struct {
	Attr       storage.Attr
	Generation uint64
	Valid      time.Duration
}

// DirEntry is one row of a directory listing. Offset is the cursor value a
// client passes to resume the listing after this entry.
type DirEntry struct {
	Ino    storage.Ino
	Offset uint64
	Kind   storage.Kind
	Name   string
}

// SetattrRequest carries the attribute fields a setattr may name. Only
// Size, UID, GID, Mtime and Flags are applied; the rest are accepted on the
// wire and ignored, since modes and the remaining timestamps are fixed at
// creation.
type SetattrRequest struct {
	Size  *uint64
	UID   *uint32
	GID   *uint32
	Mtime *time.Time
	Flags *uint32

	Mode     *uint32
	Atime    *time.Time
	Crtime   *time.Time
	Chgtime  *time.Time
	Bkuptime *time.Time
	Fh       *uint64
}
