package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linuxrag/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP answering service",
	Long: `Starts the HTTP server with the /health, /ask, /ask/stream, /sources,
/ingest and /feedback endpoints. The server drains in-flight requests on
SIGINT or SIGTERM before exiting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, svc, deps, prompts, err := buildService()
	if err != nil {
		return err
	}
	defer deps.Close()

	if prompts != nil {
		stop, err := prompts.Watch()
		if err != nil {
			logger.Warn("prompt watch disabled: %v", err)
		} else {
			defer func() { _ = stop() }()
		}
	}

	server := httpapi.NewServer(httpapi.Config{
		AppName:    cfg.AppName,
		Mode:       cfg.Mode,
		StorePath:  cfg.Store.Path,
		Collection: cfg.Store.Collection,
	}, svc, deps)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s (mode=%s)", cfg.ListenAddr, cfg.Mode)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
