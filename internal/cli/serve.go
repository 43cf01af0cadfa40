package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meetingnotes/internal/http"
	"meetingnotes/internal/service"
	"meetingnotes/internal/watch"
)

var (
	portFlag       string
	serveWatchFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalogue over HTTP",
	Long: `Starts the HTTP API. The archive is indexed in the background on start-up.
With --watch, indexes are also regenerated whenever a meeting file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&portFlag, "port", "", "listen port (overrides API_PORT)")
	serveCmd.Flags().BoolVar(&serveWatchFlag, "watch", false, "regenerate indexes when files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogService := service.NewCatalogService(a.catalog, a.pipeline, a.pipeline.Generator())
	router := http.NewRouter(&http.Deps{CatalogService: catalogService})

	// Start indexing in background after router is ready
	go func() {
		slog.Info("Starting background indexing of archive", "root", a.cfg.NotesRoot)
		if _, err := a.pipeline.IndexAll(ctx); err != nil {
			slog.Error("Indexing completed with errors", "error", err)
		} else {
			slog.Info("Indexing completed successfully")
		}
	}()

	if serveWatchFlag {
		watcher := watch.New(a.store, a.pipeline, a.cfg.WatchDebounce)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Watcher stopped", "error", err)
			}
		}()
	}

	port := a.cfg.APIPort
	if portFlag != "" {
		port = portFlag
	}
	server := &nethttp.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
