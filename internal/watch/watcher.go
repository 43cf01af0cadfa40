// Package watch regenerates year indexes when meeting documents change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"meetingnotes/internal/contextutil"
	"meetingnotes/internal/indexer"
	"meetingnotes/internal/notes"
)

// Indexer is the part of the indexing pipeline the watcher drives.
type Indexer interface {
	IndexYear(ctx context.Context, year int) (indexer.YearResult, error)
	IndexAll(ctx context.Context) ([]indexer.YearResult, error)
}

// Watcher follows the archive root and every year directory.
type Watcher struct {
	store    *notes.Store
	indexer  Indexer
	debounce time.Duration
}

// change is the indexing work implied by one filesystem event.
type change struct {
	year     int
	all      bool
	watchDir string
}

// New creates a watcher. Events arriving within debounce of each other are batched.
func New(store *notes.Store, idx Indexer, debounce time.Duration) *Watcher {
	return &Watcher{
		store:    store,
		indexer:  idx,
		debounce: debounce,
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.store.Root()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.store.Root(), err)
	}
	years, err := w.store.Years(ctx)
	if err != nil {
		return fmt.Errorf("failed to list years: %w", err)
	}
	for _, year := range years {
		if err := fsw.Add(w.store.YearDir(year)); err != nil {
			return fmt.Errorf("failed to watch year %d: %w", year, err)
		}
	}
	logger.InfoContext(ctx, "watching archive", "root", w.store.Root(), "years", len(years), "debounce", w.debounce)

	pending := make(map[int]struct{})
	all := false
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			c, relevant := w.classify(event)
			if !relevant {
				continue
			}
			logger.DebugContext(ctx, "archive changed", "path", event.Name, "op", event.Op.String())
			if c.watchDir != "" {
				if err := fsw.Add(c.watchDir); err != nil {
					logger.WarnContext(ctx, "failed to watch new year directory", "path", c.watchDir, "error", err)
				}
			}
			if c.all {
				all = true
			} else {
				pending[c.year] = struct{}{}
			}
			fire = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", "error", err)

		case <-fire:
			fire = nil
			w.flush(ctx, logger, pending, all)
			clear(pending)
			all = false
		}
	}
}

// flush runs the indexing batched since the last flush.
func (w *Watcher) flush(ctx context.Context, logger *slog.Logger, pending map[int]struct{}, all bool) {
	if all {
		results, err := w.indexer.IndexAll(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "re-indexing completed with errors", "error", err)
			return
		}
		logger.InfoContext(ctx, "re-indexed archive", "years", len(results))
		return
	}

	years := make([]int, 0, len(pending))
	for year := range pending {
		years = append(years, year)
	}
	slices.Sort(years)

	for _, year := range years {
		result, err := w.indexer.IndexYear(ctx, year)
		if errors.Is(err, notes.ErrYearNotFound) {
			logger.InfoContext(ctx, "year directory is gone", "year", year)
			continue
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to re-index year", "year", year, "error", err)
			continue
		}
		logger.InfoContext(ctx, "re-indexed year",
			"year", year,
			"documents", result.Documents,
			"parsed", result.Parsed,
			"written", result.Written,
		)
	}
}

// classify maps a filesystem event to the indexing it requires.
// Events on the index file, hidden files and non-meeting files are ignored.
func (w *Watcher) classify(event fsnotify.Event) (change, bool) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return change{}, false
	}

	rel, err := filepath.Rel(w.store.Root(), event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return change{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	switch len(parts) {
	case 1:
		year, err := notes.ParseYearDir(parts[0])
		if err != nil {
			return change{}, false
		}
		if event.Op.Has(fsnotify.Create) {
			info, err := os.Stat(event.Name)
			if err != nil || !info.IsDir() {
				return change{}, false
			}
			return change{year: year, watchDir: event.Name}, true
		}
		if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
			return change{all: true}, true
		}
		return change{}, false

	case 2:
		year, err := notes.ParseYearDir(parts[0])
		if err != nil || !w.store.IsMeetingFile(parts[1]) {
			return change{}, false
		}
		return change{year: year}, true
	}
	return change{}, false
}
