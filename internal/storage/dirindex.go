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

import "sort"

// DirIndex is the name-resolution view over the inode table. It answers
// "what does (parent, name) point at" and "what lives under this directory"
// without keeping any state of its own; the link entries on the inodes are
// the authoritative mapping.
type DirIndex struct {
	table *InodeTable
}

// NewDirIndex builds an index over the given table.
func NewDirIndex(table *InodeTable) *DirIndex {
	return &DirIndex{table: table}
}

// ChildEntry is one directory listing row.
type ChildEntry struct {
	Ino  Ino
	Name string
	Kind Kind
}

// Resolve finds the inode named name under parent.
func (d *DirIndex) Resolve(parent Ino, name string) (Ino, bool) {
	return d.table.Resolve(parent, name)
}

// Children lists the entries under dir, sorted by name so listings are
// stable across calls.
func (d *DirIndex) Children(dir Ino) []ChildEntry {
	var out []ChildEntry
	for ino, i := range d.table.inodes {
		for _, l := range i.links {
			if l.Parent == dir {
				out = append(out, ChildEntry{Ino: ino, Name: l.Name, Kind: i.Kind})
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Parent returns the directory holding dir's first entry. Root is its own
// parent.
func (d *DirIndex) Parent(dir Ino) Ino {
	if dir == RootIno {
		return RootIno
	}
	i, ok := d.table.inodes[dir]
	if !ok || len(i.links) == 0 {
		return RootIno
	}
	return i.links[0].Parent
}
