package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
	"pajama/internal/modules/replica/domain"
	replicaout "pajama/internal/modules/replica/port/out"
	apperrors "pajama/internal/platform/errors"
)

const defaultCallTimeout = 10 * time.Second

// GRPCRemoteStore talks to pajamad. Every call carries the stored bearer
// token.
type GRPCRemoteStore struct {
	client  replicarpc.DocumentStoreClient
	timeout time.Duration
}

func NewGRPCRemoteStore(client replicarpc.DocumentStoreClient, timeout time.Duration) *GRPCRemoteStore {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &GRPCRemoteStore{client: client, timeout: timeout}
}

// DialGRPC opens a lazy client connection to addr. The caller closes the
// returned connection.
func DialGRPC(addr string, creds replicaout.CredentialStore, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(bearer{creds: creds}),
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

func (s *GRPCRemoteStore) Find(ctx context.Context) (string, bool, error) {
	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.Find(callCtx)
	if err != nil {
		return "", false, remoteError("find", err)
	}
	return resp.Handle, resp.Found, nil
}

func (s *GRPCRemoteStore) Read(ctx context.Context, handle string) ([]byte, error) {
	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.Read(callCtx, &replicarpc.ReadRequest{Handle: handle})
	if err != nil {
		return nil, remoteError("read", err)
	}
	return resp.Blob, nil
}

func (s *GRPCRemoteStore) Write(ctx context.Context, handle string, blob []byte) (string, error) {
	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.Write(callCtx, &replicarpc.WriteRequest{Handle: handle, Blob: blob})
	if err != nil {
		return "", remoteError("write", err)
	}
	return resp.Handle, nil
}

// remoteError maps a gRPC status onto a sync reason.
func remoteError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			st = status.New(codes.DeadlineExceeded, err.Error())
		} else {
			st = status.New(codes.Unknown, err.Error())
		}
	}
	reason := domain.RemoteErrorReason(uint32(st.Code()))
	if st.Code() == codes.Unauthenticated {
		reason = domain.ReasonAuthExpired
	}
	return &domain.RemoteError{Reason: reason, Err: fmt.Errorf("%s: %w", op, err)}
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

type bearer struct {
	creds replicaout.CredentialStore
}

func (b bearer) GetRequestMetadata(ctx context.Context, _ ...string) (map[string]string, error) {
	credential, found, err := b.creds.Load(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	if !found || credential.Token == "" {
		return nil, status.Error(codes.Unauthenticated, apperrors.ErrNotSignedIn.Error())
	}
	return map[string]string{"authorization": "Bearer " + credential.Token}, nil
}

func (bearer) RequireTransportSecurity() bool {
	return false
}
