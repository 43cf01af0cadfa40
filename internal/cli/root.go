package cli

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"meetingnotes/internal/config"
	"meetingnotes/internal/indexer"
	"meetingnotes/internal/notes"
	"meetingnotes/internal/storage"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flags shared by every command. Non-empty values override the environment.
var (
	rootFlag      string
	dbFlag        string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "meetingnotes",
	Short: "Maintain a dated archive of meeting notes",
	Long: `meetingnotes keeps a directory of meeting notes, one folder per year and
one dated markdown file per meeting, together with a generated index for
each year. It regenerates the indexes, checks their links and serves the
catalogue over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "archive root directory (overrides NOTES_ROOT)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "catalog database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "text or json (overrides LOG_FORMAT)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app holds everything a command needs to work on the archive.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	store    *notes.Store
	catalog  *storage.DocumentRepo
	pipeline *indexer.Pipeline
}

// loadConfig reads the environment, applies flag overrides and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if rootFlag != "" {
		cfg.NotesRoot = rootFlag
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if logLevelFlag != "" {
		level, err := config.ParseLogLevel(logLevelFlag)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	if logFormatFlag != "" {
		format := strings.ToLower(logFormatFlag)
		if format != "text" && format != "json" {
			return nil, fmt.Errorf("--log-format must be \"text\" or \"json\", got %q", logFormatFlag)
		}
		cfg.LogFormat = format
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default slog logger.
func setupLogging(cfg *config.Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}

// openApp loads configuration, opens the catalog and builds the pipeline.
// Logs go to the command's error stream so command output stays clean.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg, cmd.ErrOrStderr())

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database initialized", "path", cfg.DBPath)

	store, err := notes.NewStore(cfg.NotesRoot, cfg.IndexFile)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	catalog := storage.NewDocumentRepo(db)
	return &app{
		cfg:      cfg,
		db:       db,
		store:    store,
		catalog:  catalog,
		pipeline: indexer.NewPipeline(store, catalog),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
