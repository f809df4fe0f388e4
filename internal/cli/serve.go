package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crshop/attendance/internal/grpcapi"
	"github.com/crshop/attendance/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the kiosk over HTTP and gRPC health",
		Long: `Serve the kiosk API for browser or tablet front-ends.

HTTP routes: POST /v1/preview, /v1/submit, /v1/export, GET /healthz, /metrics.
gRPC: grpc.health.v1.Health reporting whether the database is reachable.

Example:
  attendance serve --config ./config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(rootOpts, cmd)
		},
	}
}

func serve(opts *RootOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	httpSrv := httpapi.NewServer(httpapi.Dependencies{
		Logger:   a.logger,
		Addr:     a.cfg.HTTPAddr,
		Session:  a.session,
		Gatherer: a.registry,
		Ping:     a.store.Ping,
	})
	grpcSrv := grpcapi.NewServer(grpcapi.Dependencies{
		Logger: a.logger,
		Addr:   a.cfg.GRPCAddr,
		Store:  a.store,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http listening", "addr", a.cfg.HTTPAddr)
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcSrv.Start()
	})
	g.Go(func() error {
		grpcSrv.Watch(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcSrv.Stop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	return nil
}
