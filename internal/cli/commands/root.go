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

package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"memfs/internal/config"
	"memfs/internal/server"
	"memfs/internal/vfs"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

var (
	flagLogLevel string
	flagConfig   string
	flagAddr     string
)

var rootCmd = &cobra.Command{
	Use:   "memfs MOUNTPOINT",
	Short: "Mount an in-memory filesystem",
	Long: `Mounts an in-memory filesystem at the given mount point.

All state lives in process memory: the filesystem starts with only the root
directory and everything is gone when the process exits. The tree is served
over a loopback NFS export and mounted through the kernel NFS client.`,
	SilenceUsage: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: memfs MOUNTPOINT")
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		level := settings.LogLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		log.SetLevel(parsed)
		return nil
	},
	RunE: runMount,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings file (default: ~/.memfs/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "NFS listen address (default from settings)")
}

func loadSettings() (config.Settings, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	return config.LoadDefault()
}

func newEngine(settings config.Settings) *vfs.MemFS {
	uid, gid := settings.Owner()
	return vfs.NewMemFS(vfs.Options{
		UID:     uid,
		GID:     gid,
		AttrTTL: time.Duration(settings.AttrTTLSeconds) * time.Second,
	})
}

func runMount(cmd *cobra.Command, args []string) error {
	mountPoint, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve mount point: %w", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	lock := server.NewMountLock(config.LockPath())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	addr := settings.ListenAddr
	if flagAddr != "" {
		addr = flagAddr
	}
	srv := server.NewNFSServer(newEngine(settings), settings.CacheHandles)
	if err := srv.Listen(addr); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	if err := server.Mount(srv.Port(), mountPoint); err != nil {
		srv.Shutdown()
		return err
	}
	log.Infof("mounted at %s (session %s)", mountPoint, lock.SessionID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
	case err := <-serveErr:
		if err != nil {
			log.Errorf("server stopped: %v", err)
		}
	}

	if err := server.Unmount(mountPoint); err != nil {
		log.Warnf("failed to unmount %s: %v", mountPoint, err)
	}
	srv.Shutdown()
	return nil
}
