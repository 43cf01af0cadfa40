// Package index builds and renders per-year meeting listings.
package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"meetingnotes/internal/meeting"
)

const displayDateLayout = "Jan 2, 2006"

// Generator builds year listings from meeting documents.
type Generator struct {
	headingFormat string
	md            goldmark.Markdown
}

// NewGenerator creates a generator that titles each listing "Meeting notes for <year>".
func NewGenerator() *Generator {
	return &Generator{
		headingFormat: "Meeting notes for %d",
		md:            goldmark.New(),
	}
}

// Generate orders the documents of a year by date. Every document must be
// dated inside year and no two documents may share a date; all violations
// are reported together.
func (g *Generator) Generate(year int, docs []meeting.Document) (YearIndex, error) {
	idx := YearIndex{Year: year, Entries: make([]Entry, 0, len(docs))}

	sorted := make([]meeting.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].FileName < sorted[j].FileName
	})

	var errs []error
	for i, doc := range sorted {
		if doc.Date.Year() != year {
			errs = append(errs, &YearMismatchError{Year: year, FileName: doc.FileName, Date: doc.Date})
			continue
		}
		if i > 0 && sorted[i-1].Date.Equal(doc.Date) {
			errs = append(errs, &DuplicateDateError{Date: doc.Date, First: sorted[i-1].FileName, Second: doc.FileName})
			continue
		}

		topics := make([]string, len(doc.Topics))
		copy(topics, doc.Topics)
		idx.Entries = append(idx.Entries, Entry{
			Date:     doc.Date,
			FileName: doc.FileName,
			Title:    doc.Title,
			Topics:   topics,
		})
	}

	if len(errs) > 0 {
		return YearIndex{}, fmt.Errorf("invalid listing for %d: %w", year, errors.Join(errs...))
	}
	return idx, nil
}

// Render writes a year listing as markdown. An empty listing renders as the heading alone.
func (g *Generator) Render(idx YearIndex) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# "+g.headingFormat+"\n", idx.Year)

	if len(idx.Entries) > 0 {
		b.WriteString("\n")
	}
	for _, e := range idx.Entries {
		fmt.Fprintf(&b, "- [%s](%s)", e.Date.Format(displayDateLayout), linkDestination(e.FileName))
		if e.Title != "" {
			b.WriteString(": ")
			b.WriteString(escapeInline(singleLine(e.Title)))
		}
		b.WriteString("\n")
		for _, topic := range e.Topics {
			b.WriteString("  - ")
			b.WriteString(escapeInline(singleLine(topic)))
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// ParseLinks returns the destinations of all inline links in a markdown document, in order.
func (g *Generator) ParseLinks(content []byte) []string {
	root := g.md.Parser().Parse(text.NewReader(content))

	var links []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			links = append(links, string(link.Destination))
		}
		return ast.WalkContinue, nil
	})
	return links
}

// linkDestination wraps file names that would break an inline link.
func linkDestination(name string) string {
	if strings.ContainsAny(name, " ()<>") {
		return "<" + name + ">"
	}
	return name
}

// escapeInline backslash-escapes the characters that could open a link,
// emphasis or inline HTML. Matched code spans are copied as they are.
func escapeInline(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c == '`' {
			n := backtickRun(s, i)
			if end := closingRun(s, i+n, n); end >= 0 {
				b.WriteString(s[i:end])
				i = end
				continue
			}
			for range n {
				b.WriteString("\\`")
			}
			i += n
			continue
		}
		if strings.IndexByte(`\[]()*_<>`, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// closingRun returns the index just past the first run of exactly n backticks
// at or after from, or -1.
func closingRun(s string, from, n int) int {
	for j := from; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		m := backtickRun(s, j)
		if m == n {
			return j + m
		}
		j += m
	}
	return -1
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
