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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// getConfigDir returns the config directory path.
// Uses MEMFS_CONFIG_DIR env var if set, otherwise defaults to ~/.memfs.
// Computed dynamically to support test isolation.
func getConfigDir() string {
	if dir := os.Getenv("MEMFS_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memfs")
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	return getConfigDir()
}

// SettingsPath returns the settings file path
func SettingsPath() string {
	return filepath.Join(getConfigDir(), "settings.yaml")
}

// LockPath returns the mount lock file path
func LockPath() string {
	return filepath.Join(getConfigDir(), "mount.lock")
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(getConfigDir(), 0700)
}

// Settings is the process configuration loaded from settings.yaml.
type Settings struct {
	// LogLevel sets the logrus level: trace, debug, info, warn, error.
	LogLevel string `yaml:"log-level" validate:"omitempty,oneof=trace debug info warn error"`

	// ListenAddr is where the NFS server listens. Loopback only: the mount
	// is a local kernel client, never a remote one.
	ListenAddr string `yaml:"listen-addr" validate:"omitempty,hostname_port"`

	// AttrTTLSeconds is the attribute cache TTL handed to the kernel.
	AttrTTLSeconds int `yaml:"attr-ttl-seconds" validate:"gte=0,lte=3600"`

	// CacheHandles sizes the NFS handle cache.
	CacheHandles int `yaml:"cache-handles" validate:"gte=0"`

	// UID and GID override the owner stamped on the root directory and on
	// created inodes. Absent means the current user (pointers detect
	// missing keys, since 0 is a valid owner).
	UID *int `yaml:"uid" validate:"omitempty,gte=0"`
	GID *int `yaml:"gid" validate:"omitempty,gte=0"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		LogLevel:       "info",
		ListenAddr:     "localhost:0",
		AttrTTLSeconds: 1,
		CacheHandles:   65536,
	}
}

// ApplyDefaults fills zero-value fields with their defaults.
func (s *Settings) ApplyDefaults() {
	def := Defaults()
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	if s.ListenAddr == "" {
		s.ListenAddr = def.ListenAddr
	}
	if s.AttrTTLSeconds == 0 {
		s.AttrTTLSeconds = def.AttrTTLSeconds
	}
	if s.CacheHandles == 0 {
		s.CacheHandles = def.CacheHandles
	}
}

// Owner resolves the configured uid/gid, falling back to the process owner.
func (s *Settings) Owner() (uint32, uint32) {
	uid, gid := os.Getuid(), os.Getgid()
	if s.UID != nil {
		uid = *s.UID
	}
	if s.GID != nil {
		gid = *s.GID
	}
	return uint32(uid), uint32(gid)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads settings from path. A missing file yields the defaults; a
// malformed or invalid file is an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	s.ApplyDefaults()
	if err := validate.Struct(&s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// LoadDefault reads settings from the standard location.
func LoadDefault() (Settings, error) {
	return Load(SettingsPath())
}
