package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"meetingnotes/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate indexes as meeting files change",
	Long: `Indexes the whole archive once, then watches the archive root and every
year directory. Adding, editing or removing a meeting file regenerates the
index of its year.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := a.pipeline.IndexAll(ctx)
	if err != nil {
		slog.Error("Initial indexing completed with errors", "error", err)
	}
	for _, result := range results {
		printYearResult(cmd, result)
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	return watch.New(a.store, a.pipeline, a.cfg.WatchDebounce).Run(ctx)
}
