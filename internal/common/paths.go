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

import (
	"path"
	"strings"
)

// The engine itself is inode-addressed; paths only appear at the transport
// boundary, where the NFS adapter walks them component by component.

// NormalizePath cleans a slash-separated path and strips the leading and
// trailing separators. The root directory normalizes to "".
func NormalizePath(p string) string {
	p = path.Clean("/" + p)
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// SplitPath splits a path into its components. Root yields nil.
func SplitPath(p string) []string {
	p = NormalizePath(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// ParentPath returns the parent of a normalized path ("" for entries
// directly under root, and for root itself).
func ParentPath(p string) string {
	p = NormalizePath(p)
	if p == "" {
		return ""
	}
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

// BaseName returns the last component of a path, or "" for root.
func BaseName(p string) string {
	p = NormalizePath(p)
	if p == "" {
		return ""
	}
	return path.Base(p)
}
