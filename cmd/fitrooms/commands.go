package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	adapthttp "fitrooms/internal/adapter/http"
	"fitrooms/internal/metrics"
)

const sweepInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP API, the optional client bundle and /metrics.

Rooms past their end date are swept hourly in process; the
POST /api/cron/room-status endpoint and "fitrooms sweep" do the same on demand.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "End finished rooms and remove expired sessions once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}
		defer rt.closer()
		return rt.sweep(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}
		defer rt.closer()
		rt.log.Info("schema up to date", zap.String("driver", rt.cfg.Database.Driver))
		return nil
	},
}

func runServe(cmd *cobra.Command, _ []string) error {
	m := metrics.New()
	rt, err := setup(m)
	if err != nil {
		return err
	}
	defer rt.closer()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var oidc *adapthttp.OIDC
	if rt.cfg.OIDC.Enabled {
		if oidc, err = adapthttp.NewOIDC(ctx, rt.cfg.OIDC); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              rt.cfg.HTTP.Addr,
		Handler:           adapthttp.New(rt.svc, *rt.cfg, oidc, rt.log.Named("http"), m).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go rt.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("listening", zap.String("addr", srv.Addr), zap.String("timezone", rt.cfg.App.Timezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (rt *instance) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		if err := rt.sweep(ctx); err != nil && ctx.Err() == nil {
			rt.log.Error("scheduled sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
