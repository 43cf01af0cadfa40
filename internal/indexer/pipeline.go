package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"meetingnotes/internal/contextutil"
	"meetingnotes/internal/index"
	"meetingnotes/internal/meeting"
	"meetingnotes/internal/notes"
	"meetingnotes/internal/storage"
	"meetingnotes/internal/xref"
)

// YearResult describes one regenerated year.
type YearResult struct {
	Year      int  `json:"year"`
	Documents int  `json:"documents"`
	Parsed    int  `json:"parsed"`
	Pruned    int  `json:"pruned"`
	Written   bool `json:"written"`
}

// CheckReport is the outcome of checking every on-disk index.
type CheckReport struct {
	YearsChecked   int                     `json:"years_checked"`
	Broken         []*xref.BrokenLinkError `json:"-"`
	MissingIndexes []int                   `json:"missing_indexes,omitempty"`
}

// OK reports whether every index was present and every link resolved.
func (r CheckReport) OK() bool {
	return len(r.Broken) == 0 && len(r.MissingIndexes) == 0
}

// Pipeline regenerates year indexes from the archive, keeping the catalog in step.
// Runs are serialized so the watcher and API triggers never interleave.
type Pipeline struct {
	mu        sync.Mutex
	store     *notes.Store
	catalog   storage.DocumentStore
	parser    *meeting.Parser
	generator *index.Generator
	resolver  *xref.Resolver
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(store *notes.Store, catalog storage.DocumentStore) *Pipeline {
	generator := index.NewGenerator()
	return &Pipeline{
		store:     store,
		catalog:   catalog,
		parser:    meeting.NewParser(),
		generator: generator,
		resolver:  xref.NewResolver(store, generator),
	}
}

// Generator returns the generator used to build and render listings.
func (p *Pipeline) Generator() *index.Generator {
	return p.generator
}

// IndexYear scans one year, refreshes the catalog, and rewrites the year's
// index file when its content changed. Unchanged files (by hash) are not re-parsed.
func (p *Pipeline) IndexYear(ctx context.Context, year int) (YearResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexYear(ctx, year)
}

func (p *Pipeline) indexYear(ctx context.Context, year int) (YearResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := YearResult{Year: year}

	files, err := p.store.ScanYear(ctx, year)
	if err != nil {
		return result, fmt.Errorf("failed to scan year %d: %w", year, err)
	}

	docs := make([]meeting.Document, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	for _, file := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		seen[file.RelPath] = struct{}{}

		doc, parsed, err := p.loadDocument(ctx, file)
		if err != nil {
			return result, err
		}
		if parsed {
			result.Parsed++
			logger.DebugContext(ctx, "parsed document", "rel_path", file.RelPath, "title", doc.Title, "topics", len(doc.Topics))
		}
		docs = append(docs, doc)
	}

	pruned, err := p.pruneYear(ctx, year, seen)
	if err != nil {
		return result, err
	}
	result.Pruned = pruned

	idx, err := p.generator.Generate(year, docs)
	if err != nil {
		return result, err
	}
	result.Documents = len(idx.Entries)

	if err := p.resolver.Validate(ctx, idx); err != nil {
		return result, fmt.Errorf("generated index for %d does not resolve: %w", year, err)
	}

	rendered := p.generator.Render(idx)
	current, err := p.store.ReadIndex(year)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, err
	}
	if err == nil && bytes.Equal(current, rendered) {
		logger.DebugContext(ctx, "index unchanged", "year", year, "documents", result.Documents)
		return result, nil
	}

	if err := p.store.WriteIndex(year, rendered); err != nil {
		return result, err
	}
	result.Written = true

	logger.InfoContext(ctx, "wrote index", "year", year, "documents", result.Documents, "parsed", result.Parsed, "pruned", result.Pruned)
	return result, nil
}

// loadDocument returns the document for a scanned file, reusing the catalog
// record when the content hash is unchanged. parsed reports whether the file was re-parsed.
func (p *Pipeline) loadDocument(ctx context.Context, file notes.ScannedFile) (meeting.Document, bool, error) {
	content, err := p.store.Read(file)
	if err != nil {
		return meeting.Document{}, false, err
	}
	hash := meeting.HashContent(content)

	existing, err := p.catalog.GetByPath(ctx, file.RelPath)
	if err != nil && err != storage.ErrNotFound {
		return meeting.Document{}, false, fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil && existing.Hash == hash && existing.MeetingDate.Equal(file.Date) {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hash)
		return recordToDocument(existing, content), false, nil
	}

	doc, err := p.parser.Parse(content, file.Name, file.RelPath, file.Date)
	if err != nil {
		return meeting.Document{}, false, fmt.Errorf("failed to parse %s: %w", file.RelPath, err)
	}

	record := documentToRecord(doc, file.Year)
	if existing != nil {
		record.ID = existing.ID
	}
	if err := p.catalog.Upsert(ctx, record); err != nil {
		return meeting.Document{}, false, fmt.Errorf("failed to upsert document: %w", err)
	}

	return doc, true, nil
}

// pruneYear removes catalog rows for files of a year that no longer exist.
func (p *Pipeline) pruneYear(ctx context.Context, year int, seen map[string]struct{}) (int, error) {
	records, err := p.catalog.ListByYear(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("failed to list catalogued documents: %w", err)
	}

	pruned := 0
	for _, record := range records {
		if _, ok := seen[record.RelPath]; ok {
			continue
		}
		if err := p.catalog.DeleteByPath(ctx, record.RelPath); err != nil {
			return pruned, fmt.Errorf("failed to prune %s: %w", record.RelPath, err)
		}
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "pruned removed document", "rel_path", record.RelPath)
		pruned++
	}
	return pruned, nil
}

// IndexAll regenerates every year of the archive.
// Errors for individual years are logged but don't stop the indexing process.
func (p *Pipeline) IndexAll(ctx context.Context) ([]YearResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)

	years, err := p.store.Years(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "years", len(years))

	var results []YearResult
	var errs []error

	for _, year := range years {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result, err := p.indexYear(ctx, year)
		if err != nil {
			errs = append(errs, fmt.Errorf("year %d: %w", year, err))
			logger.ErrorContext(ctx, "failed to index year", "year", year, "error", err)
			continue
		}
		results = append(results, result)
	}

	if err := p.pruneVanishedYears(ctx, years); err != nil {
		errs = append(errs, err)
	}

	logger.InfoContext(ctx, "indexing completed", "years", len(years), "success", len(results), "errors", len(errs))

	if len(errs) > 0 {
		return results, fmt.Errorf("indexing completed with %d errors: %w", len(errs), errors.Join(errs...))
	}
	return results, nil
}

// pruneVanishedYears drops catalog rows for years whose directory is gone.
func (p *Pipeline) pruneVanishedYears(ctx context.Context, years []int) error {
	present := make(map[int]struct{}, len(years))
	for _, y := range years {
		present[y] = struct{}{}
	}

	catalogued, err := p.catalog.ListYears(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalogued years: %w", err)
	}
	for _, yc := range catalogued {
		if _, ok := present[yc.Year]; ok {
			continue
		}
		if _, err := p.pruneYear(ctx, yc.Year, nil); err != nil {
			return err
		}
	}
	return nil
}

// CheckAll checks the links of every on-disk index without modifying anything.
// Broken links and missing index files are collected in the report; the
// returned error is reserved for failures to perform the check.
func (p *Pipeline) CheckAll(ctx context.Context) (CheckReport, error) {
	var report CheckReport

	years, err := p.store.Years(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list years: %w", err)
	}

	for _, year := range years {
		err := p.resolver.CheckIndexFile(ctx, year)
		report.YearsChecked++
		if err == nil {
			continue
		}
		if errors.Is(err, xref.ErrIndexMissing) {
			report.MissingIndexes = append(report.MissingIndexes, year)
			continue
		}
		broken := xref.BrokenLinks(err)
		if len(broken) == 0 {
			return report, fmt.Errorf("failed to check %d index: %w", year, err)
		}
		report.Broken = append(report.Broken, broken...)
	}

	return report, nil
}

// ClearCatalog removes every catalogued document so the next run re-parses all files.
func (p *Pipeline) ClearCatalog(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.catalog.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}

func documentToRecord(doc meeting.Document, year int) *storage.DocumentRecord {
	return &storage.DocumentRecord{
		Year:        year,
		MeetingDate: doc.Date,
		RelPath:     doc.RelPath,
		FileName:    doc.FileName,
		Title:       doc.Title,
		Topics:      doc.Topics,
		Hash:        doc.Hash,
	}
}

func recordToDocument(record *storage.DocumentRecord, content []byte) meeting.Document {
	return meeting.Document{
		Date:     record.MeetingDate,
		Title:    record.Title,
		Topics:   record.Topics,
		Body:     string(content),
		FileName: record.FileName,
		RelPath:  record.RelPath,
		Hash:     record.Hash,
	}
}
