package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"meetingnotes/internal/index"
	"meetingnotes/internal/indexer"
	"meetingnotes/internal/storage"
	storage_mocks "meetingnotes/internal/storage/mocks"
)

// fakeIndexer records calls and returns canned results.
type fakeIndexer struct {
	calls    []string
	results  []indexer.YearResult
	report   indexer.CheckReport
	stats    *indexer.CatalogStats
	indexErr error
	clearErr error
}

func (f *fakeIndexer) IndexAll(ctx context.Context) ([]indexer.YearResult, error) {
	f.calls = append(f.calls, "IndexAll")
	return f.results, f.indexErr
}

func (f *fakeIndexer) CheckAll(ctx context.Context) (indexer.CheckReport, error) {
	f.calls = append(f.calls, "CheckAll")
	return f.report, nil
}

func (f *fakeIndexer) ClearCatalog(ctx context.Context) error {
	f.calls = append(f.calls, "ClearCatalog")
	return f.clearErr
}

func (f *fakeIndexer) Stats(ctx context.Context) (*indexer.CatalogStats, error) {
	f.calls = append(f.calls, "Stats")
	return f.stats, nil
}

func rec(month time.Month, day int, title string, topics ...string) storage.DocumentRecord {
	date := time.Date(2018, month, day, 0, 0, 0, 0, time.UTC)
	name := "LDM-" + date.Format("2006-01-02") + ".md"
	return storage.DocumentRecord{
		Year:        2018,
		MeetingDate: date,
		RelPath:     "2018/" + name,
		FileName:    name,
		Title:       title,
		Topics:      topics,
	}
}

func TestCatalogService_YearIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := storage_mocks.NewMockDocumentStore(ctrl)
	svc := NewCatalogService(mockCatalog, &fakeIndexer{}, index.NewGenerator())

	mockCatalog.EXPECT().
		ListByYear(gomock.Any(), 2018).
		Return([]storage.DocumentRecord{
			rec(time.January, 3, "a", "Nullable"),
			rec(time.January, 10, "b"),
		}, nil)

	idx, err := svc.YearIndex(context.Background(), 2018)
	if err != nil {
		t.Fatalf("YearIndex() error = %v", err)
	}
	if idx.Year != 2018 || len(idx.Entries) != 2 || idx.Entries[0].Title != "a" {
		t.Errorf("YearIndex() = %+v", idx)
	}
}

func TestCatalogService_YearIndex_Errors(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		setup   func(m *storage_mocks.MockDocumentStore)
		wantErr error
	}{
		{
			name:    "year out of range",
			year:    18,
			setup:   func(m *storage_mocks.MockDocumentStore) {},
			wantErr: ErrInvalidInput,
		},
		{
			name: "no documents",
			year: 2030,
			setup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().ListByYear(gomock.Any(), 2030).Return([]storage.DocumentRecord{}, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "duplicate dates in catalog",
			year: 2018,
			setup: func(m *storage_mocks.MockDocumentStore) {
				dup := rec(time.January, 3, "dup")
				dup.FileName = "LDM-2018-01-03-b.md"
				m.EXPECT().ListByYear(gomock.Any(), 2018).Return([]storage.DocumentRecord{rec(time.January, 3, "a"), dup}, nil)
			},
			wantErr: ErrInvalidArchive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCatalog := storage_mocks.NewMockDocumentStore(ctrl)
			tt.setup(mockCatalog)
			svc := NewCatalogService(mockCatalog, &fakeIndexer{}, index.NewGenerator())

			_, err := svc.YearIndex(context.Background(), tt.year)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("YearIndex() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogService_RenderYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := storage_mocks.NewMockDocumentStore(ctrl)
	svc := NewCatalogService(mockCatalog, &fakeIndexer{}, index.NewGenerator())

	mockCatalog.EXPECT().
		ListByYear(gomock.Any(), 2018).
		Return([]storage.DocumentRecord{rec(time.January, 3, "a", "Nullable")}, nil)

	content, err := svc.RenderYear(context.Background(), 2018)
	if err != nil {
		t.Fatalf("RenderYear() error = %v", err)
	}
	if !strings.HasPrefix(string(content), "# Meeting notes for 2018\n") || !strings.Contains(string(content), "  - Nullable\n") {
		t.Errorf("RenderYear() = %q", content)
	}
}

func TestCatalogService_Document(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := storage_mocks.NewMockDocumentStore(ctrl)
	svc := NewCatalogService(mockCatalog, &fakeIndexer{}, index.NewGenerator())

	found := rec(time.January, 3, "a")
	jan3 := time.Date(2018, time.January, 3, 0, 0, 0, 0, time.UTC)
	jan4 := time.Date(2018, time.January, 4, 0, 0, 0, 0, time.UTC)
	mockCatalog.EXPECT().GetByDate(gomock.Any(), jan3).Return(&found, nil)
	mockCatalog.EXPECT().GetByDate(gomock.Any(), jan4).Return(nil, storage.ErrNotFound)

	doc, err := svc.Document(context.Background(), "2018-01-03")
	if err != nil || doc.Title != "a" {
		t.Errorf("Document() = %+v, %v", doc, err)
	}

	if _, err := svc.Document(context.Background(), "2018-01-04"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Document() missing error = %v, want ErrNotFound", err)
	}

	if _, err := svc.Document(context.Background(), "Jan 3"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Document() invalid date error = %v, want ErrInvalidInput", err)
	}
}

func TestCatalogService_Reindex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := &fakeIndexer{results: []indexer.YearResult{{Year: 2018, Documents: 5}}}
	svc := NewCatalogService(storage_mocks.NewMockDocumentStore(ctrl), fake, index.NewGenerator())

	results, err := svc.Reindex(context.Background(), false)
	if err != nil || len(results) != 1 {
		t.Fatalf("Reindex() = %+v, %v", results, err)
	}
	if strings.Join(fake.calls, ",") != "IndexAll" {
		t.Errorf("Reindex(false) calls = %v", fake.calls)
	}

	fake.calls = nil
	if _, err := svc.Reindex(context.Background(), true); err != nil {
		t.Fatalf("Reindex(true) error = %v", err)
	}
	if strings.Join(fake.calls, ",") != "ClearCatalog,IndexAll" {
		t.Errorf("Reindex(true) calls = %v", fake.calls)
	}

	fake.calls = nil
	fake.clearErr = errors.New("disk full")
	if _, err := svc.Reindex(context.Background(), true); err == nil {
		t.Error("Reindex(true) expected clear error")
	}
	if strings.Join(fake.calls, ",") != "ClearCatalog" {
		t.Errorf("Reindex(true) after clear failure calls = %v", fake.calls)
	}
}

func TestCatalogService_CheckStatsHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := storage_mocks.NewMockDocumentStore(ctrl)
	fake := &fakeIndexer{
		report: indexer.CheckReport{YearsChecked: 3},
		stats:  &indexer.CatalogStats{Documents: 7},
	}
	svc := NewCatalogService(mockCatalog, fake, index.NewGenerator())

	report, err := svc.Check(context.Background())
	if err != nil || report.YearsChecked != 3 {
		t.Errorf("Check() = %+v, %v", report, err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil || stats.Documents != 7 {
		t.Errorf("Stats() = %+v, %v", stats, err)
	}

	mockCatalog.EXPECT().Ping(gomock.Any()).Return(nil)
	if err := svc.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}

	mockCatalog.EXPECT().ListYears(gomock.Any()).Return([]storage.YearCount{{Year: 2018, Documents: 5}}, nil)
	years, err := svc.Years(context.Background())
	if err != nil || len(years) != 1 {
		t.Errorf("Years() = %+v, %v", years, err)
	}
}
