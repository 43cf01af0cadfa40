// Package meeting defines meeting documents and the parser that reads them.
package meeting

import (
	"strings"
	"time"
)

// Document is one dated meeting record.
type Document struct {
	Date     time.Time // Meeting date (UTC midnight)
	Title    string    // First heading, or a title derived from the file name
	Topics   []string  // Agenda items or section headings, in document order
	Body     string    // Raw markdown content
	FileName string    // File name inside the year directory
	RelPath  string    // Path relative to the archive root (e.g., "2018/LDM-2018-01-03.md")
	Hash     string    // SHA256 hex string of file content
}

// Year returns the calendar year of the meeting.
func (d Document) Year() int {
	return d.Date.Year()
}

// Summary joins the topics into a single line.
func (d Document) Summary() string {
	return strings.Join(d.Topics, "; ")
}
