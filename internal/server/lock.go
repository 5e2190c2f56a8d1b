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
	"fmt"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// MountLock guards against two processes exporting over the same lock file.
// The state is per-process memory, so a second mount would be a disjoint
// filesystem silently shadowing the first.
type MountLock struct {
	lock      *flock.Flock
	SessionID string
}

// NewMountLock creates a lock at path with a fresh session id.
func NewMountLock(path string) *MountLock {
	return &MountLock{
		lock:      flock.New(path),
		SessionID: uuid.New().String(),
	}
}

// Acquire takes the lock, failing fast if another instance holds it.
func (m *MountLock) Acquire() error {
	locked, err := m.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another memfs instance is already running")
	}
	return nil
}

// Release drops the lock.
func (m *MountLock) Release() error {
	return m.lock.Unlock()
}
