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
	"context"
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"

	"memfs/internal/vfs"
)

// NFSServer wraps the go-nfs server around a MemFS engine. The server is the
// serialization boundary: go-nfs may handle requests concurrently, and the
// engine's own mutex makes each dispatched operation exclusive.
type NFSServer struct {
	listener net.Listener
	server   *nfs.Server
	handler  nfs.Handler
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewNFSServer creates an NFS server for the given engine. cacheHandles
// sizes the file-handle cache; zero falls back to 65536.
func NewNFSServer(fs *vfs.MemFS, cacheHandles int) *NFSServer {
	if log.IsLevelEnabled(log.TraceLevel) {
		nfs.Log.SetLevel(nfs.TraceLevel)
	} else if log.IsLevelEnabled(log.DebugLevel) {
		nfs.Log.SetLevel(nfs.DebugLevel)
	}
	if cacheHandles == 0 {
		cacheHandles = 65536
	}

	billyFS := NewBillyAdapter(fs)
	handler := nfshelper.NewNullAuthHandler(billyFS)
	cacheHelper := nfshelper.NewCachingHandler(handler, cacheHandles)

	ctx, cancel := context.WithCancel(context.Background())
	server := &nfs.Server{
		Handler: cacheHelper,
		Context: ctx,
	}

	return &NFSServer{
		server:  server,
		handler: cacheHelper,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Listen binds the server to addr. Must be called before Serve; the chosen
// port is available through Port afterwards.
func (s *NFSServer) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	log.Debugf("[NFS] listening on %s", listener.Addr())
	return nil
}

// Port returns the bound TCP port. Only valid after Listen.
func (s *NFSServer) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve runs the request loop until Shutdown.
func (s *NFSServer) Serve() error {
	if s.listener == nil {
		return fmt.Errorf("serve called before listen")
	}
	return s.server.Serve(s.listener)
}

// Shutdown stops the NFS server gracefully.
func (s *NFSServer) Shutdown() {
	if s.listener != nil {
		s.listener.Close()
	}

	// Settle time for in-flight requests after the listener closes. The
	// mountpoint is unmounted before this call, so the kernel client has
	// already disconnected.
	time.Sleep(100 * time.Millisecond)

	if s.cancel != nil {
		s.cancel()
	}

	close(s.done)
}
