package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingnotes/internal/indexer"
	"meetingnotes/internal/notes"
)

type fakeIndexer struct {
	mu       sync.Mutex
	years    []int
	allCalls int
}

func (f *fakeIndexer) IndexYear(ctx context.Context, year int) (indexer.YearResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.years = append(f.years, year)
	return indexer.YearResult{Year: year}, nil
}

func (f *fakeIndexer) IndexAll(ctx context.Context) ([]indexer.YearResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	return nil, nil
}

func (f *fakeIndexer) snapshot() ([]int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.years...), f.allCalls
}

func newArchive(t *testing.T) (string, *notes.Store) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2018"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2018", "LDM-2018-01-03.md"), []byte("# First\n"), 0644))
	store, err := notes.NewStore(root, "README.md")
	require.NoError(t, err)
	return root, store
}

func TestWatcher_Classify(t *testing.T) {
	root, store := newArchive(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2019"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2020"), []byte("not a dir"), 0644))
	w := New(store, &fakeIndexer{}, time.Millisecond)

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		relevant bool
		want     change
	}{
		{
			name:     "meeting file written",
			path:     filepath.Join(root, "2018", "LDM-2018-01-03.md"),
			op:       fsnotify.Write,
			relevant: true,
			want:     change{year: 2018},
		},
		{
			name:     "meeting file removed",
			path:     filepath.Join(root, "2018", "LDM-2018-01-10.md"),
			op:       fsnotify.Remove,
			relevant: true,
			want:     change{year: 2018},
		},
		{
			name: "index file written",
			path: filepath.Join(root, "2018", "README.md"),
			op:   fsnotify.Write,
		},
		{
			name: "editor swap file",
			path: filepath.Join(root, "2018", ".LDM-2018-01-03.md.swp"),
			op:   fsnotify.Create,
		},
		{
			name: "file without date",
			path: filepath.Join(root, "2018", "notes.md"),
			op:   fsnotify.Create,
		},
		{
			name: "chmod only",
			path: filepath.Join(root, "2018", "LDM-2018-01-03.md"),
			op:   fsnotify.Chmod,
		},
		{
			name:     "new year directory",
			path:     filepath.Join(root, "2019"),
			op:       fsnotify.Create,
			relevant: true,
			want:     change{year: 2019, watchDir: filepath.Join(root, "2019")},
		},
		{
			name: "year-named file at root",
			path: filepath.Join(root, "2020"),
			op:   fsnotify.Create,
		},
		{
			name:     "year directory removed",
			path:     filepath.Join(root, "2017"),
			op:       fsnotify.Remove,
			relevant: true,
			want:     change{all: true},
		},
		{
			name: "non-year directory",
			path: filepath.Join(root, "drafts"),
			op:   fsnotify.Create,
		},
		{
			name: "nested too deep",
			path: filepath.Join(root, "2018", "img", "LDM-2018-01-03.md"),
			op:   fsnotify.Create,
		},
		{
			name: "outside root",
			path: filepath.Join(filepath.Dir(root), "LDM-2018-01-03.md"),
			op:   fsnotify.Create,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, relevant := w.classify(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.relevant, relevant)
			if tt.relevant {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	root, store := newArchive(t)
	fake := &fakeIndexer{}
	w := New(store, fake, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	countYear := func(year int) int {
		years, _ := fake.snapshot()
		n := 0
		for _, y := range years {
			if y == year {
				n++
			}
		}
		return n
	}

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "2018", "LDM-2018-01-10.md"), []byte("# Second\n"), 0644))
	require.Eventually(t, func() bool { return countYear(2018) > 0 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "2018", "README.md"), []byte("# Meeting notes for 2018\n"), 0644))

	require.NoError(t, os.Mkdir(filepath.Join(root, "2019"), 0755))
	require.Eventually(t, func() bool { return countYear(2019) == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "2019", "LDM-2019-02-01.md"), []byte("# Third\n"), 0644))
	require.Eventually(t, func() bool { return countYear(2019) >= 2 }, 5*time.Second, 10*time.Millisecond)

	_, allCalls := fake.snapshot()
	assert.Zero(t, allCalls)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
