package server

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
)

// maxDocumentBytes bounds a single replicated document.
const maxDocumentBytes = 8 << 20

// DocumentService serves the document store contract for authenticated
// accounts.
type DocumentService struct {
	repo   *Repository
	logger hclog.Logger
}

func NewDocumentService(repo *Repository, logger hclog.Logger) *DocumentService {
	return &DocumentService{repo: repo, logger: logger.Named("documents")}
}

var _ replicarpc.DocumentStoreServer = (*DocumentService)(nil)

func (s *DocumentService) Find(ctx context.Context, _ *replicarpc.FindRequest) (*replicarpc.FindResponse, error) {
	account, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	handle, found, err := s.repo.Find(ctx, account)
	if err != nil {
		return nil, s.internal("find", err)
	}
	return &replicarpc.FindResponse{Handle: handle, Found: found}, nil
}

func (s *DocumentService) Read(ctx context.Context, in *replicarpc.ReadRequest) (*replicarpc.ReadResponse, error) {
	account, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	blob, err := s.repo.Read(ctx, account, in.Handle)
	if err != nil {
		return nil, s.mapError("read", err)
	}
	return &replicarpc.ReadResponse{Blob: blob}, nil
}

func (s *DocumentService) Write(ctx context.Context, in *replicarpc.WriteRequest) (*replicarpc.WriteResponse, error) {
	account, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Blob) > maxDocumentBytes {
		return nil, status.Error(codes.ResourceExhausted, "document too large")
	}
	handle, err := s.repo.Write(ctx, account, in.Handle, in.Blob)
	if err != nil {
		return nil, s.mapError("write", err)
	}
	s.logger.Debug("document written", "account", account, "bytes", len(in.Blob))
	return &replicarpc.WriteResponse{Handle: handle}, nil
}

func requireAccount(ctx context.Context) (string, error) {
	account, ok := AccountFrom(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, ErrMissingToken.Error())
	}
	return account, nil
}

func (s *DocumentService) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrForeignHandle):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return s.internal(op, err)
	}
}

func (s *DocumentService) internal(op string, err error) error {
	s.logger.Error("storage failure", "op", op, "error", err)
	return status.Error(codes.Internal, "storage failure")
}
