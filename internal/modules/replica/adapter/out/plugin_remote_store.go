package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
	"pajama/internal/modules/replica/domain"
)

const defaultStartTimeout = 3 * time.Second

// PluginRemoteStore launches a go-plugin binary that serves the document
// store contract. The process is started on first use and kept until
// Close.
type PluginRemoteStore struct {
	binary  string
	env     []string
	timeout time.Duration
	logger  hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	store  *GRPCRemoteStore
}

func NewPluginRemoteStore(binary string, env []string, timeout time.Duration, logger hclog.Logger) *PluginRemoteStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginRemoteStore{binary: binary, env: env, timeout: timeout, logger: logger}
}

func (s *PluginRemoteStore) Find(ctx context.Context) (string, bool, error) {
	store, err := s.connect()
	if err != nil {
		return "", false, err
	}
	return store.Find(ctx)
}

func (s *PluginRemoteStore) Read(ctx context.Context, handle string) ([]byte, error) {
	store, err := s.connect()
	if err != nil {
		return nil, err
	}
	return store.Read(ctx, handle)
}

func (s *PluginRemoteStore) Write(ctx context.Context, handle string, blob []byte) (string, error) {
	store, err := s.connect()
	if err != nil {
		return "", err
	}
	return store.Write(ctx, handle, blob)
}

func (s *PluginRemoteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Kill()
		s.client, s.store = nil, nil
	}
	return nil
}

func (s *PluginRemoteStore) connect() (*GRPCRemoteStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil && s.client != nil && !s.client.Exited() {
		return s.store, nil
	}

	cmd := exec.Command(s.binary)
	if len(s.env) > 0 {
		cmd.Env = append(cmd.Environ(), s.env...)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  replicarpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          replicarpc.PluginMap(nil),
		Cmd:              cmd,
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           s.logger,
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, unavailable(fmt.Errorf("start plugin %s: %w", s.binary, err))
	}
	raw, err := rpcClient.Dispense(replicarpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, unavailable(fmt.Errorf("dispense plugin: %w", err))
	}
	typed, ok := raw.(replicarpc.DocumentStoreClient)
	if !ok {
		client.Kill()
		return nil, unavailable(fmt.Errorf("plugin rpc client type mismatch"))
	}
	s.client = client
	s.store = NewGRPCRemoteStore(typed, s.timeout)
	return s.store, nil
}

// unavailable reports launch failures with the gRPC Unavailable code (14).
func unavailable(err error) error {
	return &domain.RemoteError{Reason: domain.RemoteErrorReason(14), Err: err}
}
