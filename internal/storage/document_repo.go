package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks meetingnotes/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

const dateLayout = "2006-01-02"

// DocumentStore defines the interface for catalog storage operations.
type DocumentStore interface {
	// GetByPath gets a document by its path relative to the archive root.
	// Returns nil and ErrNotFound if not found.
	GetByPath(ctx context.Context, relPath string) (*DocumentRecord, error)
	// GetByDate gets the document held on a meeting date.
	// Returns nil and ErrNotFound if not found.
	GetByDate(ctx context.Context, date time.Time) (*DocumentRecord, error)
	// Upsert inserts a new document or updates an existing one with the same path.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// ListByYear returns the documents of a year ordered by meeting date.
	ListByYear(ctx context.Context, year int) ([]DocumentRecord, error)
	// ListYears returns every catalogued year with its document count, ascending.
	ListYears(ctx context.Context) ([]YearCount, error)
	// DeleteByPath removes a document. Deleting a missing document is not an error.
	DeleteByPath(ctx context.Context, relPath string) error
	// DeleteAll removes every document.
	DeleteAll(ctx context.Context) error
	// Ping verifies the catalog is reachable.
	Ping(ctx context.Context) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const selectDocument = "SELECT id, year, meeting_date, rel_path, file_name, title, topics, hash, updated_at FROM documents"

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	var dateStr, topicsJSON, updatedAtStr string

	if err := row.Scan(&doc.ID, &doc.Year, &dateStr, &doc.RelPath, &doc.FileName, &doc.Title, &topicsJSON, &doc.Hash, &updatedAtStr); err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse meeting_date: %w", err)
	}
	doc.MeetingDate = date

	if err := json.Unmarshal([]byte(topicsJSON), &doc.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	if doc.Topics == nil {
		doc.Topics = []string{}
	}

	doc.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &doc, nil
}

// parseTimestamp parses a SQLite DATETIME value, which the driver may hand back
// in either SQLite's own format or RFC3339.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// GetByPath gets a document by its path relative to the archive root.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByPath(ctx context.Context, relPath string) (*DocumentRecord, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, selectDocument+" WHERE rel_path = ?", relPath))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// GetByDate gets the document held on a meeting date.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByDate(ctx context.Context, date time.Time) (*DocumentRecord, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx,
		selectDocument+" WHERE meeting_date = ? ORDER BY rel_path LIMIT 1",
		date.Format(dateLayout),
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// Upsert inserts a new document or updates an existing one.
// If the document doesn't exist (by rel_path), generates a new UUID.
// If it exists, updates the parsed fields while preserving the ID.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	existing, err := r.GetByPath(ctx, doc.RelPath)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing == nil && doc.ID == "" {
		doc.ID = uuid.New().String()
	} else if existing != nil {
		doc.ID = existing.ID
	}

	topics := doc.Topics
	if topics == nil {
		topics = []string{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, year, meeting_date, rel_path, file_name, title, topics, hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (rel_path) DO UPDATE SET
		 year = excluded.year, meeting_date = excluded.meeting_date, file_name = excluded.file_name,
		 title = excluded.title, topics = excluded.topics, hash = excluded.hash, updated_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.Year, doc.MeetingDate.Format(dateLayout), doc.RelPath, doc.FileName, doc.Title, string(topicsJSON), doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// ListByYear returns the documents of a year ordered by meeting date.
func (r *DocumentRepo) ListByYear(ctx context.Context, year int) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectDocument+" WHERE year = ? ORDER BY meeting_date, rel_path", year)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []DocumentRecord{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// ListYears returns every catalogued year with its document count, ascending.
func (r *DocumentRepo) ListYears(ctx context.Context) ([]YearCount, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT year, COUNT(*) FROM documents GROUP BY year ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	defer rows.Close()

	years := []YearCount{}
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.Year, &yc.Documents); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate years: %w", err)
	}

	return years, nil
}

// DeleteByPath removes a document. Deleting a missing document is not an error.
func (r *DocumentRepo) DeleteByPath(ctx context.Context, relPath string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE rel_path = ?", relPath); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DeleteAll removes every document.
func (r *DocumentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Ping verifies the catalog is reachable.
func (r *DocumentRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
