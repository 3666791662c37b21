package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pajama/internal/platform/config"
	"pajama/internal/platform/kv"
	"pajama/internal/platform/logging"
	"pajama/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pajamad",
		Short:         "Remote document store for pajama sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the document store over gRPC",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			logger := logging.New("pajamad", cfg.LogLevel, os.Stderr)

			store, err := kv.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			lis, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Addr, err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.NewRepository(store), server.NewAuthenticator(cfg.Secret, cfg.Issuer), cfg.MetricsAddr, logger)
			return srv.Serve(ctx, lis)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token --sub <account>",
		Short: "Issue an account token signed with PAJAMAD_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(subject) == "" {
				return fmt.Errorf("--sub is required")
			}
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			token, err := server.NewAuthenticator(cfg.Secret, cfg.Issuer).Issue(subject, ttl, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "account subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 720*time.Hour, "token lifetime")
	return cmd
}
