// Package xref checks that index listings point at documents that exist.
package xref

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"meetingnotes/internal/index"
)

// ErrIndexMissing is returned when a year has no index file to check.
var ErrIndexMissing = errors.New("index file missing")

// BrokenLinkError names an index reference to a document that does not exist.
type BrokenLinkError struct {
	Year   int
	Target string
}

func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("broken link in %d index: %s does not exist", e.Year, e.Target)
}

// DocumentStore is the read-only view of the archive the resolver needs.
type DocumentStore interface {
	// ExistsPath reports whether a slash-separated path relative to the archive root exists.
	ExistsPath(relPath string) (bool, error)
	// ReadIndex returns the index file of a year; the error wraps os.ErrNotExist when absent.
	ReadIndex(year int) ([]byte, error)
}

// LinkParser extracts link destinations from a markdown index.
type LinkParser interface {
	ParseLinks(content []byte) []string
}

// Resolver validates index listings against the archive. It never writes.
type Resolver struct {
	store DocumentStore
	links LinkParser
}

// NewResolver creates a new Resolver.
func NewResolver(store DocumentStore, links LinkParser) *Resolver {
	return &Resolver{store: store, links: links}
}

// Validate checks that every entry of a generated listing resolves to a document.
// All broken entries are reported together; use BrokenLinks to list them.
func (r *Resolver) Validate(ctx context.Context, idx index.YearIndex) error {
	var errs []error
	for _, entry := range idx.Entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath := strconv.Itoa(idx.Year) + "/" + entry.FileName
		ok, err := r.store.ExistsPath(relPath)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", relPath, err)
		}
		if !ok {
			errs = append(errs, &BrokenLinkError{Year: idx.Year, Target: entry.FileName})
		}
	}
	return errors.Join(errs...)
}

// CheckIndexFile reads the on-disk index of a year and checks each relative
// link. External links and in-page anchors are not checked.
func (r *Resolver) CheckIndexFile(ctx context.Context, year int) error {
	content, err := r.store.ReadIndex(year)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w for %d", ErrIndexMissing, year)
		}
		return err
	}

	var errs []error
	for _, target := range r.links.ParseLinks(content) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, local := resolveTarget(year, target)
		if !local {
			continue
		}
		ok, err := r.store.ExistsPath(relPath)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", relPath, err)
		}
		if !ok {
			errs = append(errs, &BrokenLinkError{Year: year, Target: target})
		}
	}
	return errors.Join(errs...)
}

// resolveTarget turns a link found in a year's index into a path relative to
// the archive root. It reports false for links that do not point into the archive.
func resolveTarget(year int, target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "#") {
		return "", false
	}

	u, err := url.Parse(target)
	if err != nil {
		// Unparseable destinations are still checked literally
		return path.Join(strconv.Itoa(year), target), true
	}
	if u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	if path.IsAbs(u.Path) {
		return strings.TrimPrefix(path.Clean(u.Path), "/"), true
	}
	return path.Join(strconv.Itoa(year), u.Path), true
}

// BrokenLinks collects every BrokenLinkError contained in err.
func BrokenLinks(err error) []*BrokenLinkError {
	var out []*BrokenLinkError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if bl, ok := e.(*BrokenLinkError); ok {
			out = append(out, bl)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
