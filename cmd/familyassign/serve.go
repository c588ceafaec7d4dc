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

	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/core"
	fahttp "github.com/awantoch/familyassign/http"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/telemetry"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generate endpoint locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				if a := cfg.Addr(); a != "" {
					addr = a
				}
			}

			shutdownTracing, err := telemetry.Init(cfg)
			if err != nil {
				logger.Warn("tracing disabled: %v", err)
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Error("tracing shutdown: %v", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps, cleanup, err := core.InitializeDependencies(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServeMux(deps),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", constants.DefaultServeAddr, "Listen address")
	return cmd
}

func newServeMux(deps *core.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", telemetry.WrapHandler("generate", fahttp.NewGenerateHandler(deps)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.Handle("/metrics", telemetry.MetricsHandler())
	return mux
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
