package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the document store over gRPC and exposes /metrics over
// HTTP.
type Server struct {
	grpc   *grpc.Server
	http   *http.Server
	logger hclog.Logger
}

func New(repo *Repository, auth Authenticator, metricsAddr string, logger hclog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	metrics := NewMetrics(registry)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(metrics.UnaryInterceptor(), auth.UnaryInterceptor()))
	replicarpc.RegisterDocumentStoreServer(grpcServer, NewDocumentService(repo, logger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return &Server{
		grpc: grpcServer,
		http: &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// GRPC exposes the underlying server for in-process listeners.
func (s *Server) GRPC() *grpc.Server {
	return s.grpc
}

// Serve blocks until ctx is cancelled or a listener fails.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errs := make(chan error, 2)
	go func() {
		s.logger.Info("grpc listening", "addr", lis.Addr().String())
		errs <- s.grpc.Serve(lis)
	}()
	if s.http.Addr != "" {
		go func() {
			s.logger.Info("metrics listening", "addr", s.http.Addr)
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("metrics shutdown failed", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.grpc.Stop()
	}
	return serveErr
}
