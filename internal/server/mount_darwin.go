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

//go:build darwin

package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"
)

// unmountTimeout bounds each unmount attempt. After the NFS server stops,
// the kernel client may block unmount commands until its soft timeout.
const unmountTimeout = 3 * time.Second

// Mount mounts the local NFS export at mountPoint using mount_nfs.
//
// noac disables attribute caching so mutations are visible immediately.
// soft,timeo=50,retrans=3 keeps a dead server from wedging the kernel mount.
// nobrowse hides the mount from Finder and keeps Spotlight off it.
func Mount(port int, mountPoint string) error {
	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return fmt.Errorf("failed to create mount point: %w", err)
	}

	cmd := exec.Command("mount_nfs",
		"-o", fmt.Sprintf("port=%d,mountport=%d,tcp,nolocks,vers=3,rsize=65536,wsize=65536,noac,soft,timeo=50,retrans=3,nobrowse", port, port),
		"localhost:/",
		mountPoint,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mount_nfs failed: %w: %s", err, string(output))
	}
	log.Debugf("[MOUNT] mounted localhost:%d at %s", port, mountPoint)
	return nil
}

// Unmount unmounts mountPoint, retrying with backoff while the kernel
// client drains in-flight requests.
func Unmount(mountPoint string) error {
	return retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), unmountTimeout)
			defer cancel()

			cmd := exec.CommandContext(ctx, "umount", mountPoint)
			output, err := cmd.CombinedOutput()
			if err != nil {
				log.Debugf("[MOUNT] umount %s: %v: %s", mountPoint, err, string(output))
				return fmt.Errorf("umount failed: %w", err)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(1*time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
}
