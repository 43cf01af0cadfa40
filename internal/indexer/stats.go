package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// CatalogStats contains statistics about the catalogued archive.
type CatalogStats struct {
	// Years is the number of catalogued years.
	Years int `json:"years"`
	// Documents is the total number of catalogued meeting documents.
	Documents int `json:"documents"`
	// DocumentsPerYear maps each year to its document count.
	DocumentsPerYear map[int]int `json:"documents_per_year"`
	// DocsWithoutTopics is the number of documents from which no topic could be extracted.
	DocsWithoutTopics int `json:"docs_without_topics"`
	// TopicStats summarises topics per document.
	TopicStats TopicStats `json:"topic_stats"`
	// Fingerprint is a short hash over every document path and content hash;
	// it changes whenever the catalog does.
	Fingerprint string `json:"fingerprint"`
}

// TopicStats contains statistics about topic counts per document.
type TopicStats struct {
	Total int     `json:"total"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
	P95   int     `json:"p95"`
}

// Stats computes catalog statistics.
func (p *Pipeline) Stats(ctx context.Context) (*CatalogStats, error) {
	years, err := p.catalog.ListYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}

	stats := &CatalogStats{
		Years:            len(years),
		DocumentsPerYear: make(map[int]int, len(years)),
	}

	var topicCounts []int
	fingerprint := sha256.New()

	for _, yc := range years {
		docs, err := p.catalog.ListByYear(ctx, yc.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents for %d: %w", yc.Year, err)
		}
		stats.DocumentsPerYear[yc.Year] = len(docs)
		stats.Documents += len(docs)

		for _, doc := range docs {
			if len(doc.Topics) == 0 {
				stats.DocsWithoutTopics++
			}
			topicCounts = append(topicCounts, len(doc.Topics))
			fmt.Fprintf(fingerprint, "%s|%s\n", doc.RelPath, doc.Hash)
		}
	}

	stats.TopicStats = computeTopicStats(topicCounts)
	stats.Fingerprint = hex.EncodeToString(fingerprint.Sum(nil))[:16] // 16 hex chars = 64 bits

	return stats, nil
}

// computeTopicStats computes total, min, max, mean, and p95 from per-document topic counts.
func computeTopicStats(counts []int) TopicStats {
	if len(counts) == 0 {
		return TopicStats{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return TopicStats{
		Total: sum,
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:   sorted[p95Index],
	}
}
