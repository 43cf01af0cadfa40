package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func record(year int, month time.Month, day int, title string, topics ...string) *DocumentRecord {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	name := "LDM-" + date.Format(dateLayout) + ".md"
	return &DocumentRecord{
		Year:        year,
		MeetingDate: date,
		RelPath:     date.Format("2006") + "/" + name,
		FileName:    name,
		Title:       title,
		Topics:      topics,
		Hash:        "hash-" + name,
	}
}

func TestNewDocumentRepo(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	if repo == nil {
		t.Fatal("NewDocumentRepo() returned nil")
	}
}

func TestDocumentRepo_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepo(newTestDB(t))

	doc := record(2018, time.January, 3, "Jan 3", "Nullable", "Generics")
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("Upsert() did not assign an ID")
	}

	got, err := repo.GetByPath(ctx, doc.RelPath)
	if err != nil {
		t.Fatalf("GetByPath() error = %v", err)
	}
	if got.ID != doc.ID || got.Title != "Jan 3" || got.Year != 2018 || got.FileName != doc.FileName {
		t.Errorf("GetByPath() = %+v", got)
	}
	if !reflect.DeepEqual(got.Topics, []string{"Nullable", "Generics"}) {
		t.Errorf("GetByPath() topics = %#v", got.Topics)
	}
	if !got.MeetingDate.Equal(doc.MeetingDate) {
		t.Errorf("GetByPath() date = %v, want %v", got.MeetingDate, doc.MeetingDate)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("GetByPath() updated_at not set")
	}

	byDate, err := repo.GetByDate(ctx, doc.MeetingDate)
	if err != nil {
		t.Fatalf("GetByDate() error = %v", err)
	}
	if byDate.ID != doc.ID {
		t.Errorf("GetByDate() ID = %s, want %s", byDate.ID, doc.ID)
	}

	// Updating keeps the ID
	firstID := doc.ID
	updated := record(2018, time.January, 3, "Jan 3 revised")
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if updated.ID != firstID {
		t.Errorf("Upsert() update ID = %s, want %s", updated.ID, firstID)
	}
	got, err = repo.GetByPath(ctx, doc.RelPath)
	if err != nil {
		t.Fatalf("GetByPath() error = %v", err)
	}
	if got.Title != "Jan 3 revised" {
		t.Errorf("GetByPath() title = %s, want Jan 3 revised", got.Title)
	}
	if got.Topics == nil || len(got.Topics) != 0 {
		t.Errorf("GetByPath() topics = %#v, want empty slice", got.Topics)
	}
}

func TestDocumentRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepo(newTestDB(t))

	if doc, err := repo.GetByPath(ctx, "2018/missing.md"); err != ErrNotFound || doc != nil {
		t.Errorf("GetByPath() = %v, %v; want nil, ErrNotFound", doc, err)
	}
	if doc, err := repo.GetByDate(ctx, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)); err != ErrNotFound || doc != nil {
		t.Errorf("GetByDate() = %v, %v; want nil, ErrNotFound", doc, err)
	}
}

func TestDocumentRepo_ListByYear(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepo(newTestDB(t))

	for _, doc := range []*DocumentRecord{
		record(2018, time.January, 24, "e"),
		record(2018, time.January, 3, "a"),
		record(2017, time.December, 4, "x"),
		record(2018, time.January, 18, "c"),
		record(2018, time.January, 10, "b"),
		record(2018, time.January, 22, "d"),
	} {
		if err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	docs, err := repo.ListByYear(ctx, 2018)
	if err != nil {
		t.Fatalf("ListByYear() error = %v", err)
	}

	var titles []string
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	if !reflect.DeepEqual(titles, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("ListByYear() titles = %v", titles)
	}

	empty, err := repo.ListByYear(ctx, 2030)
	if err != nil {
		t.Fatalf("ListByYear() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByYear() for unknown year = %#v, want empty slice", empty)
	}

	years, err := repo.ListYears(ctx)
	if err != nil {
		t.Fatalf("ListYears() error = %v", err)
	}
	want := []YearCount{{Year: 2017, Documents: 1}, {Year: 2018, Documents: 5}}
	if !reflect.DeepEqual(years, want) {
		t.Errorf("ListYears() = %+v, want %+v", years, want)
	}
}

func TestDocumentRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepo(newTestDB(t))

	a := record(2018, time.January, 3, "a")
	b := record(2018, time.January, 10, "b")
	for _, doc := range []*DocumentRecord{a, b} {
		if err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	if err := repo.DeleteByPath(ctx, a.RelPath); err != nil {
		t.Fatalf("DeleteByPath() error = %v", err)
	}
	if _, err := repo.GetByPath(ctx, a.RelPath); err != ErrNotFound {
		t.Errorf("GetByPath() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteByPath(ctx, a.RelPath); err != nil {
		t.Errorf("DeleteByPath() of missing document error = %v", err)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	years, err := repo.ListYears(ctx)
	if err != nil {
		t.Fatalf("ListYears() error = %v", err)
	}
	if len(years) != 0 {
		t.Errorf("ListYears() after DeleteAll = %+v, want empty", years)
	}
}

func TestDocumentRepo_Ping(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)

	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	_ = db.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Error("Ping() on closed database expected error")
	}
}
