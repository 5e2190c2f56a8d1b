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

func TestContentStore(t *testing.T) {
	t.Parallel()

	t.Run("set replaces in full", func(t *testing.T) {
		t.Parallel()
		cs := NewContentStore()

		cs.Set(Ino(2), []byte("hello"))
		cs.Set(Ino(2), []byte("hi"))

		got, ok := cs.Get(Ino(2))
		require.True(t, ok)
		assert.Equal(t, []byte("hi"), got)
		assert.Equal(t, 1, cs.Len())
	})

	t.Run("set copies the input", func(t *testing.T) {
		t.Parallel()
		cs := NewContentStore()

		buf := []byte("data")
		cs.Set(Ino(2), buf)
		buf[0] = 'X'

		got, ok := cs.Get(Ino(2))
		require.True(t, ok)
		assert.Equal(t, []byte("data"), got)
	})

	t.Run("arbitrary bytes round-trip", func(t *testing.T) {
		t.Parallel()
		cs := NewContentStore()

		raw := []byte{0x00, 0xff, 0xfe, 0x80, 0x01}
		cs.Set(Ino(3), raw)

		got, ok := cs.Get(Ino(3))
		require.True(t, ok)
		assert.Equal(t, raw, got)
	})

	t.Run("missing entry", func(t *testing.T) {
		t.Parallel()
		cs := NewContentStore()

		_, ok := cs.Get(Ino(9))
		assert.False(t, ok)
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		cs := NewContentStore()

		cs.Set(Ino(2), []byte("x"))
		cs.Remove(Ino(2))

		_, ok := cs.Get(Ino(2))
		assert.False(t, ok)
		assert.Equal(t, 0, cs.Len())
	})
}
