package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_catalog_service.go -package=mocks meetingnotes/internal/service CatalogService

import (
	"context"
	"errors"
	"time"

	"meetingnotes/internal/contextutil"
	"meetingnotes/internal/index"
	"meetingnotes/internal/indexer"
	"meetingnotes/internal/meeting"
	"meetingnotes/internal/storage"
)

// Indexer regenerates and checks the archive.
// This interface is defined from the service layer's perspective (consumer-first).
type Indexer interface {
	IndexAll(ctx context.Context) ([]indexer.YearResult, error)
	CheckAll(ctx context.Context) (indexer.CheckReport, error)
	ClearCatalog(ctx context.Context) error
	Stats(ctx context.Context) (*indexer.CatalogStats, error)
}

// CatalogService answers questions about the catalogued archive.
type CatalogService interface {
	// Years lists every catalogued year with its document count.
	Years(ctx context.Context) ([]storage.YearCount, error)
	// YearIndex builds the listing of one year from the catalog.
	YearIndex(ctx context.Context, year int) (index.YearIndex, error)
	// RenderYear renders the listing of one year as markdown.
	RenderYear(ctx context.Context, year int) ([]byte, error)
	// Document looks up the meeting held on a date given as YYYY-MM-DD.
	Document(ctx context.Context, date string) (*storage.DocumentRecord, error)
	// Check runs the cross-reference check over every on-disk index.
	Check(ctx context.Context) (indexer.CheckReport, error)
	// Stats returns catalog statistics.
	Stats(ctx context.Context) (*indexer.CatalogStats, error)
	// Reindex regenerates every year; force clears the catalog first.
	Reindex(ctx context.Context, force bool) ([]indexer.YearResult, error)
	// Health verifies the catalog is reachable.
	Health(ctx context.Context) error
}

// catalogService implements CatalogService.
type catalogService struct {
	catalog   storage.DocumentStore
	indexer   Indexer
	generator *index.Generator
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog storage.DocumentStore, idx Indexer, generator *index.Generator) CatalogService {
	return &catalogService{
		catalog:   catalog,
		indexer:   idx,
		generator: generator,
	}
}

func (s *catalogService) Years(ctx context.Context) ([]storage.YearCount, error) {
	years, err := s.catalog.ListYears(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list years")
	}
	return years, nil
}

func (s *catalogService) YearIndex(ctx context.Context, year int) (index.YearIndex, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if year < 1000 || year > 9999 {
		logger.WarnContext(ctx, "invalid year requested", "year", year)
		return index.YearIndex{}, &ValidationError{Field: "year", Message: "must be a four-digit year"}
	}

	records, err := s.catalog.ListByYear(ctx, year)
	if err != nil {
		return index.YearIndex{}, WrapError(err, "failed to list documents")
	}
	if len(records) == 0 {
		return index.YearIndex{}, WrapError(ErrNotFound, "no meetings catalogued for year")
	}

	docs := make([]meeting.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, meeting.Document{
			Date:     r.MeetingDate,
			Title:    r.Title,
			Topics:   r.Topics,
			FileName: r.FileName,
			RelPath:  r.RelPath,
			Hash:     r.Hash,
		})
	}

	idx, err := s.generator.Generate(year, docs)
	if err != nil {
		logger.ErrorContext(ctx, "catalog holds an invalid listing", "year", year, "error", err)
		return index.YearIndex{}, WrapError(errors.Join(ErrInvalidArchive, err), "failed to build listing")
	}
	return idx, nil
}

func (s *catalogService) RenderYear(ctx context.Context, year int) ([]byte, error) {
	idx, err := s.YearIndex(ctx, year)
	if err != nil {
		return nil, err
	}
	return s.generator.Render(idx), nil
}

func (s *catalogService) Document(ctx context.Context, date string) (*storage.DocumentRecord, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "must be formatted as YYYY-MM-DD"}
	}

	doc, err := s.catalog.GetByDate(ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, WrapError(ErrNotFound, "no meeting on "+date)
	}
	if err != nil {
		return nil, WrapError(err, "failed to get document")
	}
	return doc, nil
}

func (s *catalogService) Check(ctx context.Context) (indexer.CheckReport, error) {
	report, err := s.indexer.CheckAll(ctx)
	if err != nil {
		return report, WrapError(err, "failed to check indexes")
	}
	return report, nil
}

func (s *catalogService) Stats(ctx context.Context) (*indexer.CatalogStats, error) {
	stats, err := s.indexer.Stats(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to compute stats")
	}
	return stats, nil
}

func (s *catalogService) Reindex(ctx context.Context, force bool) ([]indexer.YearResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if force {
		if err := s.indexer.ClearCatalog(ctx); err != nil {
			return nil, WrapError(err, "failed to clear catalog")
		}
		logger.InfoContext(ctx, "cleared catalog before re-indexing")
	}

	results, err := s.indexer.IndexAll(ctx)
	if err != nil {
		return results, WrapError(err, "re-indexing completed with errors")
	}
	return results, nil
}

func (s *catalogService) Health(ctx context.Context) error {
	return s.catalog.Ping(ctx)
}
