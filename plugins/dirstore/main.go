// Command dirstore is a document store plugin that keeps the replica
// document in a local directory, typically one shared through a file
// syncing service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
)

const (
	handle   = "document"
	fileName = "document.json"
)

type server struct {
	mu  sync.Mutex
	dir string
}

func (s *server) path() string {
	return filepath.Join(s.dir, fileName)
}

func (s *server) Find(_ context.Context, _ *replicarpc.FindRequest) (*replicarpc.FindResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &replicarpc.FindResponse{}, nil
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &replicarpc.FindResponse{Handle: handle, Found: true}, nil
}

func (s *server) Read(_ context.Context, in *replicarpc.ReadRequest) (*replicarpc.ReadResponse, error) {
	if in.Handle != handle {
		return nil, status.Errorf(codes.NotFound, "unknown handle %q", in.Handle)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, status.Error(codes.NotFound, "document not found")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &replicarpc.ReadResponse{Blob: blob}, nil
}

func (s *server) Write(_ context.Context, in *replicarpc.WriteRequest) (*replicarpc.WriteResponse, error) {
	if in.Handle != "" && in.Handle != handle {
		return nil, status.Errorf(codes.PermissionDenied, "unknown handle %q", in.Handle)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, in.Blob, 0o644); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &replicarpc.WriteResponse{Handle: handle}, nil
}

func main() {
	dir := os.Getenv("PAJAMA_DIRSTORE_PATH")
	if dir == "" {
		fmt.Fprintln(os.Stderr, "PAJAMA_DIRSTORE_PATH is required")
		os.Exit(1)
	}
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: replicarpc.HandshakeConfig,
		Plugins:         replicarpc.PluginMap(&server{dir: dir}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
