package meeting

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Headings that structure a meeting note but are not topics of their own.
var nonTopicHeadings = map[string]struct{}{
	"agenda":            {},
	"quote of the day":  {},
	"quotes of the day": {},
}

// Parser parses meeting documents using goldmark AST parsing.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a new meeting parser.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// Parse reads a meeting document. The date comes from the file name and is
// never taken from the body.
func (p *Parser) Parse(content []byte, fileName, relPath string, date time.Time) (Document, error) {
	if fileName == "" {
		return Document{}, fmt.Errorf("file name is required")
	}
	if date.IsZero() {
		return Document{}, fmt.Errorf("meeting date is required for %s", fileName)
	}

	doc := Document{
		Date:     date,
		Body:     string(content),
		FileName: fileName,
		RelPath:  relPath,
		Hash:     HashContent(content),
	}

	if len(content) == 0 {
		doc.Title = titleFromFilename(fileName)
		doc.Topics = []string{}
		return doc, nil
	}

	root := p.md.Parser().Parse(text.NewReader(content))

	title, titleNode := extractTitle(root, content)
	if title == "" {
		title = titleFromFilename(fileName)
	}
	doc.Title = title
	doc.Topics = extractTopics(root, content, titleNode)

	return doc, nil
}

// HashContent returns the SHA256 hex digest of content.
func HashContent(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// extractTitle returns the first level-1 heading, or the first level-2 heading
// when the document has no level-1 heading. The node is returned so topic
// extraction can skip it.
func extractTitle(root ast.Node, content []byte) (string, ast.Node) {
	var h1, h2 ast.Node

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if heading.Level == 1 {
			h1 = heading
			break
		}
		if heading.Level == 2 && h2 == nil {
			h2 = heading
		}
	}

	if h1 != nil {
		return nodeText(h1, content), h1
	}
	if h2 != nil {
		return nodeText(h2, content), h2
	}
	return "", nil
}

// extractTopics returns the items of the agenda list when the document has one,
// otherwise the level-1 and level-2 headings other than the title.
func extractTopics(root ast.Node, content []byte, titleNode ast.Node) []string {
	if agenda := agendaItems(root, content); len(agenda) > 0 {
		return agenda
	}

	topics := []string{}
	seen := make(map[string]struct{})
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || n == titleNode || heading.Level > 2 {
			continue
		}
		topic := cleanTopic(nodeText(heading, content))
		if topic == "" {
			continue
		}
		if _, skip := nonTopicHeadings[strings.ToLower(topic)]; skip {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

// agendaItems finds the first list that follows an "Agenda" heading and
// returns the text of its items.
func agendaItems(root ast.Node, content []byte) []string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || !strings.EqualFold(nodeText(heading, content), "agenda") {
			continue
		}

		// Paragraphs between the heading and the list are allowed; the next heading ends the search
		for sib := heading.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if _, isHeading := sib.(*ast.Heading); isHeading {
				break
			}
			list, isList := sib.(*ast.List)
			if !isList {
				continue
			}
			var items []string
			for item := list.FirstChild(); item != nil; item = item.NextSibling() {
				if topic := cleanTopic(listItemText(item, content)); topic != "" {
					items = append(items, topic)
				}
			}
			return items
		}
		return nil
	}
	return nil
}

// listItemText returns the text of a list item, excluding nested lists.
func listItemText(item ast.Node, content []byte) string {
	var parts []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if _, nested := child.(*ast.List); nested {
			continue
		}
		if t := nodeText(child, content); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// nodeText collects the inline text below a node.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.URL(content))
		case *ast.RawHTML:
			// Generic type names such as Span<T> parse as inline HTML
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				b.Write(seg.Value(content))
			}
		case *ast.CodeSpan:
			b.WriteString(codeSpan(codeSpanText(v, content)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// codeSpanText returns the literal content of a code span.
func codeSpanText(n *ast.CodeSpan, content []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
	}
	return b.String()
}

// codeSpan wraps s in a backtick fence longer than any backtick run inside it.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// cleanTopic trims trailing punctuation and whitespace.
func cleanTopic(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r == ':' || r == '.' || unicode.IsSpace(r)
	})
}

// titleFromFilename removes the extension, turns separators into spaces and
// capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
