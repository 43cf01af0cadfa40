// Package notes reads the meeting-notes archive from disk.
//
// The archive is a directory per year, each holding one markdown file per
// meeting named by its date, plus a generated index file:
//
//	<root>/2018/README.md
//	<root>/2018/LDM-2018-01-03.md
//	<root>/2018/LDM-2018-01-10.md
package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrYearNotFound is returned when the store has no directory for a year.
	ErrYearNotFound = errors.New("year not found")
	// ErrNotYearDir is returned when a directory name is not a four-digit year.
	ErrNotYearDir = errors.New("not a year directory")
	// ErrNoDateInName is returned when a file name does not carry exactly one date.
	ErrNoDateInName = errors.New("file name has no meeting date")
)

// DateLayout is the date format used in meeting file names.
const DateLayout = "2006-01-02"

var (
	yearDirPattern  = regexp.MustCompile(`^\d{4}$`)
	fileDatePattern = regexp.MustCompile(`(?:^|[-_])(\d{4}-\d{2}-\d{2})(?:[-_]|$)`)
	anyDatePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ScannedFile represents a meeting document found during scanning.
type ScannedFile struct {
	Year    int       // Year of the directory the file lives in
	Date    time.Time // Meeting date parsed from the file name (UTC midnight)
	Name    string    // File name (e.g., "LDM-2018-01-03.md")
	RelPath string    // Path relative to the store root, forward slashes (e.g., "2018/LDM-2018-01-03.md")
	AbsPath string    // Absolute file path
}

// Store provides read access to the archive and write access to index files.
type Store struct {
	root      string
	indexFile string
}

// NewStore creates a store rooted at root. indexFile is the per-year index
// file name, which is never treated as a meeting document.
func NewStore(root, indexFile string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve notes root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access notes root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes root is not a directory: %s", abs)
	}
	if indexFile == "" {
		return nil, fmt.Errorf("index file name is required")
	}
	return &Store{root: abs, indexFile: indexFile}, nil
}

// Root returns the absolute root directory of the store.
func (s *Store) Root() string {
	return s.root
}

// IndexFile returns the per-year index file name.
func (s *Store) IndexFile() string {
	return s.indexFile
}

// YearDir returns the absolute directory for a year.
func (s *Store) YearDir(year int) string {
	return filepath.Join(s.root, strconv.Itoa(year))
}

// Years returns every year that has a directory in the store, ascending.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes root %s: %w", s.root, err)
	}

	var years []int
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !entry.IsDir() {
			continue
		}
		year, err := ParseYearDir(entry.Name())
		if err != nil {
			continue
		}
		years = append(years, year)
	}

	sort.Ints(years)
	return years, nil
}

// ScanYear lists the meeting documents of one year, ordered by file-name date.
// Files whose name does not carry a date, hidden files and the index file are skipped.
func (s *Store) ScanYear(ctx context.Context, year int) ([]ScannedFile, error) {
	dir := s.YearDir(year)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %d", ErrYearNotFound, year)
		}
		return nil, fmt.Errorf("failed to read year directory %s: %w", dir, err)
	}

	var files []ScannedFile
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := entry.Name()
		if entry.IsDir() || !s.IsMeetingFile(name) {
			continue
		}

		date, err := ParseFileDate(name)
		if err != nil {
			continue
		}

		files = append(files, ScannedFile{
			Year:    year,
			Date:    date,
			Name:    name,
			RelPath: strconv.Itoa(year) + "/" + name,
			AbsPath: filepath.Join(dir, name),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].Date.Equal(files[j].Date) {
			return files[i].Date.Before(files[j].Date)
		}
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// ScanAll scans every year directory and returns all meeting documents found.
func (s *Store) ScanAll(ctx context.Context) ([]ScannedFile, error) {
	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}

	var all []ScannedFile
	for _, year := range years {
		files, err := s.ScanYear(ctx, year)
		if err != nil {
			return all, fmt.Errorf("failed to scan year %d: %w", year, err)
		}
		all = append(all, files...)
	}
	return all, nil
}

// IsMeetingFile reports whether a file name looks like a meeting document:
// a visible markdown file other than the index file.
func (s *Store) IsMeetingFile(name string) bool {
	if strings.HasPrefix(name, ".") || name == s.indexFile {
		return false
	}
	if filepath.Ext(name) != ".md" {
		return false
	}
	_, err := ParseFileDate(name)
	return err == nil
}

// Read returns the content of a scanned document.
func (s *Store) Read(file ScannedFile) ([]byte, error) {
	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.RelPath, err)
	}
	return content, nil
}

// Exists reports whether a regular file with the given name exists in a year directory.
func (s *Store) Exists(year int, name string) (bool, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.YearDir(year), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %d/%s: %w", year, name, err)
	}
	return info.Mode().IsRegular(), nil
}

// ExistsPath reports whether a regular file exists at a slash-separated path
// relative to the store root. Directories and paths that leave the root never exist.
func (s *Store) ExistsPath(relPath string) (bool, error) {
	clean := path.Clean(relPath)
	if relPath == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", clean, err)
	}
	return info.Mode().IsRegular(), nil
}

// ReadIndex returns the current index file content for a year.
// The returned error wraps os.ErrNotExist when the index has not been generated yet.
func (s *Store) ReadIndex(year int) ([]byte, error) {
	indexPath := filepath.Join(s.YearDir(year), s.indexFile)
	content, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read index for %d: %w", year, err)
	}
	return content, nil
}

// WriteIndex replaces the index file of a year. The file is written to a
// temporary name first and renamed into place.
func (s *Store) WriteIndex(year int, content []byte) error {
	dir := s.YearDir(year)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %d", ErrYearNotFound, year)
		}
		return fmt.Errorf("failed to access year directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+s.indexFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary index file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write index for %d: %w", year, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close index for %d: %w", year, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set index permissions: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, s.indexFile)); err != nil {
		return fmt.Errorf("failed to replace index for %d: %w", year, err)
	}
	return nil
}

// ParseYearDir parses a four-digit year directory name.
func ParseYearDir(name string) (int, error) {
	if !yearDirPattern.MatchString(name) {
		return 0, fmt.Errorf("%w: %q", ErrNotYearDir, name)
	}
	year, err := strconv.Atoi(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotYearDir, name)
	}
	return year, nil
}

// ParseFileDate extracts the meeting date from a file name such as
// "LDM-2018-01-03.md", "2018-01-03.md" or "2018-01-03_notes.md".
func ParseFileDate(name string) (time.Time, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if len(anyDatePattern.FindAllString(base, -1)) != 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDateInName, name)
	}
	m := fileDatePattern.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDateInName, name)
	}
	date, err := time.Parse(DateLayout, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrNoDateInName, name, err)
	}
	return date, nil
}
