package storage

import "time"

// Ino is an inode number. 0 is reserved and never assigned; 1 is the root
// directory and exists for the lifetime of the process.
type Ino uint64

const (
	// BadIno is the reserved "bad block" inode number.
	BadIno Ino = 0
	// RootIno is the root directory.
	RootIno Ino = 1
)

// Kind is the type of filesystem object an inode describes.
type Kind uint8

const (
	KindRegular Kind = iota
	KindDirectory
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "file"
	case KindDirectory:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// DefaultMode returns the permission bits stamped at creation: 0755 for
// directories, 0644 for everything else. Modes are fixed for the lifetime
// of the inode.
func (k Kind) DefaultMode() uint32 {
	if k == KindDirectory {
		return 0o755
	}
	return 0o644
}

// LinkEntry records one directory entry resolving to an inode. An inode with
// an empty entry set is unreachable and is destroyed.
type LinkEntry struct {
	Parent Ino
	Name   string
}

// Inode holds the metadata for one filesystem object. Mutation goes through
// the InodeTable so the link-count and generation invariants hold centrally.
type Inode struct {
	Ino   Ino
	Kind  Kind
	Mode  uint32
	UID   uint32
	GID   uint32
	Size  uint64
	Flags uint32

	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
	Crtime time.Time

	// Nlink always equals len(links).
	Nlink uint32

	// Generation increments on every mutation (write, setattr, link-count
	// change). Clients use it to detect state changes; it is monotonic per
	// inode, not globally unique.
	Generation uint64

	links []LinkEntry
}

// Links returns a copy of the inode's directory entries.
func (i *Inode) Links() []LinkEntry {
	out := make([]LinkEntry, len(i.links))
	copy(out, i.links)
	return out
}

// IsDir reports whether the inode is a directory.
func (i *Inode) IsDir() bool { return i.Kind == KindDirectory }

// IsFile reports whether the inode is a regular file.
func (i *Inode) IsFile() bool { return i.Kind == KindRegular }

// IsSymlink reports whether the inode is a symbolic link.
func (i *Inode) IsSymlink() bool { return i.Kind == KindSymlink }

// Attr is a point-in-time copy of an inode's attributes, safe to hand across
// the dispatcher boundary.
type Attr struct {
	Ino    Ino
	Kind   Kind
	Mode   uint32
	UID    uint32
	GID    uint32
	Size   uint64
	Flags  uint32
	Nlink  uint32
	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
	Crtime time.Time
}

// Attr snapshots the inode's current attributes.
func (i *Inode) Attr() Attr {
	return Attr{
		Ino:    i.Ino,
		Kind:   i.Kind,
		Mode:   i.Mode,
		UID:    i.UID,
		GID:    i.GID,
		Size:   i.Size,
		Flags:  i.Flags,
		Nlink:  i.Nlink,
		Atime:  i.Atime,
		Mtime:  i.Mtime,
		Ctime:  i.Ctime,
		Crtime: i.Crtime,
	}
}

// InodeUpdate carries the attribute fields a setattr may change. Only
// non-nil fields are applied.
type InodeUpdate struct {
	Size  *uint64
	UID   *uint32
	GID   *uint32
	Mtime *time.Time
	Flags *uint32
}
