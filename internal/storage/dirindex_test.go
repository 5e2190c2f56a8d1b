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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildren(t *testing.T) {
	t.Parallel()

	t.Run("sorted by name", func(t *testing.T) {
		t.Parallel()
		table := NewInodeTable(0, 0)
		idx := NewDirIndex(table)

		for _, name := range []string{"zeta", "alpha", "mid"} {
			ino := table.Allocate(KindRegular, 0, 0, 0)
			require.NoError(t, table.AddLink(ino, RootIno, name))
		}

		kids := idx.Children(RootIno)
		require.Len(t, kids, 3)
		assert.Equal(t, "alpha", kids[0].Name)
		assert.Equal(t, "mid", kids[1].Name)
		assert.Equal(t, "zeta", kids[2].Name)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		table := NewInodeTable(0, 0)
		idx := NewDirIndex(table)

		dir := table.Allocate(KindDirectory, 0, 0, 0)
		require.NoError(t, table.AddLink(dir, RootIno, "empty"))

		assert.Empty(t, idx.Children(dir))
	})

	t.Run("only direct children appear", func(t *testing.T) {
		t.Parallel()
		table := NewInodeTable(0, 0)
		idx := NewDirIndex(table)

		dir := table.Allocate(KindDirectory, 0, 0, 0)
		require.NoError(t, table.AddLink(dir, RootIno, "sub"))
		nested := table.Allocate(KindRegular, 0, 0, 0)
		require.NoError(t, table.AddLink(nested, dir, "deep.txt"))

		kids := idx.Children(RootIno)
		require.Len(t, kids, 1)
		assert.Equal(t, "sub", kids[0].Name)
		assert.Equal(t, KindDirectory, kids[0].Kind)

		kids = idx.Children(dir)
		require.Len(t, kids, 1)
		assert.Equal(t, "deep.txt", kids[0].Name)
		assert.Equal(t, nested, kids[0].Ino)
	})
}

func TestParent(t *testing.T) {
	t.Parallel()
	table := NewInodeTable(0, 0)
	idx := NewDirIndex(table)

	dir := table.Allocate(KindDirectory, 0, 0, 0)
	require.NoError(t, table.AddLink(dir, RootIno, "sub"))

	assert.Equal(t, RootIno, idx.Parent(dir))
	assert.Equal(t, RootIno, idx.Parent(RootIno))
}

func TestDirIndexResolve(t *testing.T) {
	t.Parallel()
	table := NewInodeTable(0, 0)
	idx := NewDirIndex(table)

	ino := table.Allocate(KindSymlink, 0, 0, 4)
	require.NoError(t, table.AddLink(ino, RootIno, "link"))

	got, ok := idx.Resolve(RootIno, "link")
	assert.True(t, ok)
	assert.Equal(t, ino, got)

	_, ok = idx.Resolve(RootIno, "absent")
	assert.False(t, ok)
}
