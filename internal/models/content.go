// ABOUTME: Content models shared by the dedup engine
// ABOUTME: Defines Domain, ContentItem, DomainProfile and Verdict structures
package models

import (
	"strings"
	"time"
)

// Domain partitions the embedding space. Articles and jobs never share
// vectors, indexes or cache entries.
type Domain string

const (
	DomainArticle Domain = "article"
	DomainJob     Domain = "job"
)

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	return d == DomainArticle || d == DomainJob
}

// ContentItem is the dedup engine's view of a published article or job.
// The ingestion pipeline owns the full records; the engine only reads these
// fields and increments PublicationCount on a detected republish.
type ContentItem struct {
	ID               int64     `json:"id"`
	Domain           Domain    `json:"domain"`
	Title            string    `json:"title"`
	Excerpt          string    `json:"excerpt"`
	Body             string    `json:"body"`
	SourceURL        string    `json:"source_url"`
	PublicationCount int       `json:"publication_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// DomainProfile is the per-domain capability set: which fields feed the
// embedding input, and the namespace used for storage and cache keys.
type DomainProfile struct {
	Tag    Domain
	Fields func(item *ContentItem) []string
}

// ArticleProfile embeds title, excerpt and body, matching how articles are
// composed upstream.
var ArticleProfile = DomainProfile{
	Tag: DomainArticle,
	Fields: func(item *ContentItem) []string {
		return []string{item.Title, item.Excerpt, item.Body}
	},
}

// JobProfile embeds role (stored as Title) and description (stored as Body).
var JobProfile = DomainProfile{
	Tag: DomainJob,
	Fields: func(item *ContentItem) []string {
		return []string{item.Title, item.Body}
	},
}

// ProfileFor returns the profile for a domain. The bool is false for
// unknown domains.
func ProfileFor(domain Domain) (DomainProfile, bool) {
	switch domain {
	case DomainArticle:
		return ArticleProfile, true
	case DomainJob:
		return JobProfile, true
	default:
		return DomainProfile{}, false
	}
}

// EmbeddingText builds the canonical embedding input for an item, joining
// its non-empty fields with blank lines.
func (p DomainProfile) EmbeddingText(item *ContentItem) string {
	parts := make([]string, 0, 3)
	for _, f := range p.Fields(item) {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Embedding is the stored vector for one content item. Exactly one exists
// per item; re-encoding replaces it.
type Embedding struct {
	ItemID    int64     `json:"item_id"`
	Domain    Domain    `json:"domain"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// Verdict is the structured result of a duplicate check.
type Verdict struct {
	IsDuplicate  bool    `json:"is_duplicate"`
	Score        float64 `json:"similarity_score"`
	MatchedID    int64   `json:"matched_item_id,omitempty"`
	MatchedTitle string  `json:"matched_item_title,omitempty"`
}

// IndexStats summarizes one domain's corpus and index for admin display.
type IndexStats struct {
	Domain         Domain  `json:"domain"`
	TotalItems     int     `json:"total_items"`
	WithEmbeddings int     `json:"items_with_embeddings"`
	Indexed        int     `json:"indexed_items"`
	Missing        int     `json:"unindexed_items"`
	Dimension      int     `json:"index_dimension"`
	Threshold      float64 `json:"similarity_threshold"`
}
