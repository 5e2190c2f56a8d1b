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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"memfs/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the filesystem over NFS without mounting",
	Long: `Runs the loopback NFS export without performing a kernel mount.

Useful for debugging the protocol layer, or for mounting manually:

  memfs serve --addr localhost:2049
  mount -o port=2049,mountport=2049,tcp,vers=3 localhost:/ /mnt/memfs`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	addr := settings.ListenAddr
	if flagAddr != "" {
		addr = flagAddr
	}

	srv := server.NewNFSServer(newEngine(settings), settings.CacheHandles)
	if err := srv.Listen(addr); err != nil {
		return err
	}
	fmt.Printf("serving NFS on localhost:%d\n", srv.Port())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	srv.Shutdown()
	return nil
}
