package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task store over a local JSON API",
	Long: `Start an HTTP server exposing the task store under /api/v1.
Set api_token (or TASKMGR_API_TOKEN) to require a bearer token.

Examples:
  taskmgr serve
  taskmgr serve --addr 127.0.0.1:9000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	addr := cfg.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	var opts []server.Option
	if cfg.APIToken != "" {
		opts = append(opts, server.WithToken(cfg.APIToken))
	}
	srv := server.New(s, opts...)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", logger.F("addr", addr), logger.F("auth", cfg.APIToken != ""))
		errCh <- srv.Start(addr)
	}()
	fmt.Printf("Serving tasks on http://%s/api/v1 (Ctrl+C to stop)\n", addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sig:
	}

	logger.Info("Shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
