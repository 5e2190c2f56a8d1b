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

package common

import "errors"

// Error taxonomy of the engine. Every operation reports failure through one
// of these sentinels (possibly wrapped); the transport maps them to wire
// error codes.
var (
	// ErrNotFound means no inode or directory entry matches the request.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means the operation is invalid for the current state:
	// mutating an absent inode, or reading content through the wrong kind.
	ErrAccessDenied = errors.New("access denied")

	// ErrExists means a (parent, name) directory entry is already taken.
	ErrExists = errors.New("already exists")

	// ErrInvalidArgument means the request itself is malformed (empty name,
	// reserved inode number, unknown kind).
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied reports whether err is or wraps ErrAccessDenied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsExists reports whether err is or wraps ErrExists.
func IsExists(err error) bool {
	return errors.Is(err, ErrExists)
}

// IsInvalidArgument reports whether err is or wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
