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

// ContentStore maps inode numbers to their byte content. Regular files hold
// file data, symlinks hold their target; directories never have an entry.
// Bytes are stored raw, with no encoding constraint.
type ContentStore struct {
	data map[Ino][]byte
}

// NewContentStore creates an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{data: make(map[Ino][]byte)}
}

// Set replaces the content for ino with a private copy of b. Every write is
// a full replacement; there is no partial update.
func (c *ContentStore) Set(ino Ino, b []byte) {
	buf := make([]byte, len(b))
	copy(buf, b)
	c.data[ino] = buf
}

// Get returns the stored content and whether an entry exists. The returned
// slice is the store's own copy; callers must not mutate it.
func (c *ContentStore) Get(ino Ino) ([]byte, bool) {
	b, ok := c.data[ino]
	return b, ok
}

// Remove drops the entry for ino, if any.
func (c *ContentStore) Remove(ino Ino) {
	delete(c.data, ino)
}

// Len returns the number of inodes with stored content.
func (c *ContentStore) Len() int {
	return len(c.data)
}
