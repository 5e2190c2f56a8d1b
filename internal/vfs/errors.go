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
	"syscall"

	"memfs/internal/common"
)

// Filesystem error codes mapped to syscall errors
var (
	ENOENT  = syscall.ENOENT  // No such file or directory
	EEXIST  = syscall.EEXIST  // File exists
	ENOTDIR = syscall.ENOTDIR // Not a directory
	EISDIR  = syscall.EISDIR  // Is a directory
	EINVAL  = syscall.EINVAL  // Invalid argument
	EIO     = syscall.EIO     // I/O error
	EACCES  = syscall.EACCES  // Permission denied
	EPERM   = syscall.EPERM   // Operation not permitted
	ENOTSUP = syscall.ENOTSUP // Operation not supported
)

// Errno translates an engine error into the errno the transport puts on the
// wire. Unknown errors degrade to EIO.
func Errno(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case common.IsNotFound(err):
		return ENOENT
	case common.IsExists(err):
		return EEXIST
	case common.IsAccessDenied(err):
		return EACCES
	case common.IsInvalidArgument(err):
		return EINVAL
	}
	return EIO
}
