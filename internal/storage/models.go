package storage

import "time"

// DocumentRecord is a catalogued meeting document.
type DocumentRecord struct {
	ID          string    // UUID
	Year        int       // Year directory the document lives in
	MeetingDate time.Time // Date parsed from the file name
	RelPath     string    // Path relative to the archive root
	FileName    string    // File name inside the year directory
	Title       string    // Extracted title
	Topics      []string  // Extracted topics, in document order
	Hash        string    // SHA256 hex string of file content
	UpdatedAt   time.Time
}

// YearCount is the number of catalogued documents for a year.
type YearCount struct {
	Year      int
	Documents int
}
