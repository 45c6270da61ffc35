package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pb33f/harview/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <har-file>",
	Short: "Serve a HAR file's waterfall, filters and search over HTTP",
	Long: `Start an HTTP API over a loaded HAR file. Entries, the waterfall layout
and filter counts are computed per request; custom filters can be created,
edited, reordered and deleted while the server runs (in memory only).`,
	Args: cobra.ExactArgs(1),
	Example: `  harview serve recording.har
  harview serve recording.har --port 8080
  harview serve recording.har --host 0.0.0.0 -p 3000 -v`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 9876, "Port to listen on")
	serveCmd.Flags().String("host", "127.0.0.1", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := GetLogger()
	serverCfg := cfg.Server

	// validate port range
	if serverCfg.Port < 1 || serverCfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", serverCfg.Port)
	}

	capture, err := LoadCapture(args[0], logger)
	if err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(capture, newFilterStore(), logger)

	srv := &http.Server{
		Addr:         serverCfg.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	// capture interrupt signals for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("harview api listening", "address", "http://"+srv.Addr, "entries", len(capture.Records))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down harview api...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("harview api stopped")
	return nil
}
