package index

import (
	"fmt"
	"time"

	"meetingnotes/internal/notes"
)

// Entry is one meeting in a year listing.
type Entry struct {
	Date     time.Time
	FileName string
	Title    string
	Topics   []string
}

// YearIndex is the chronological listing of one year's meetings.
type YearIndex struct {
	Year    int
	Entries []Entry
}

// YearMismatchError is returned when a document's date falls outside the year it is listed under.
type YearMismatchError struct {
	Year     int
	FileName string
	Date     time.Time
}

func (e *YearMismatchError) Error() string {
	return fmt.Sprintf("document %s is dated %s, outside year %d", e.FileName, e.Date.Format(notes.DateLayout), e.Year)
}

// DuplicateDateError is returned when two documents of one year share a date.
type DuplicateDateError struct {
	Date   time.Time
	First  string
	Second string
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("documents %s and %s share the date %s", e.First, e.Second, e.Date.Format(notes.DateLayout))
}
