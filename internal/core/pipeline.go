// ABOUTME: Batch ingestion pipeline gluing scrape output to the dedup engine
// ABOUTME: Single-writer, sequential: each acceptance is indexed before the next check
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/pressroom/dedup/internal/index"
	"github.com/pressroom/dedup/internal/models"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

// Candidate is one scraped item awaiting ingestion, already HTML-stripped.
// For jobs, Title carries the role and Body the description.
type Candidate struct {
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt,omitempty"`
	Body      string `json:"body"`
}

// Report summarizes one ingestion run
type Report struct {
	RunID      string        `json:"run_id"`
	Domain     models.Domain `json:"domain"`
	Processed  int           `json:"processed"`
	Accepted   int           `json:"accepted"`
	Duplicates int           `json:"duplicates"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
}

// Pipeline processes candidate batches one item at a time, in order. That
// sequencing guarantees a check always sees every item accepted earlier in
// the same run: acceptance stores the embedding and extends the cached full
// index before the next candidate is looked at.
type Pipeline struct {
	checker    *Checker
	embedder   Embedder
	items      *sqlite.ItemStore
	embeddings *sqlite.EmbeddingStore
	cache      *index.Cache
}

// NewPipeline wires a Pipeline around a Checker and its stores
func NewPipeline(checker *Checker, embedder Embedder, items *sqlite.ItemStore,
	embeddings *sqlite.EmbeddingStore, cache *index.Cache) *Pipeline {
	return &Pipeline{
		checker:    checker,
		embedder:   embedder,
		items:      items,
		embeddings: embeddings,
		cache:      cache,
	}
}

// Run ingests a batch of candidates for one domain. Per-item failures are
// counted and logged, never fatal to the run. On a duplicate verdict the
// matched item's publication count is incremented and the candidate's source
// is marked seen, both, always.
func (p *Pipeline) Run(ctx context.Context, domain models.Domain, candidates []Candidate, opts CheckOptions) (*Report, error) {
	profile, ok := models.ProfileFor(domain)
	if !ok {
		return nil, fmt.Errorf("unknown domain: %q", domain)
	}

	report := &Report{
		RunID:  uuid.New().String(),
		Domain: domain,
	}

	log.Printf("run %s: ingesting %d %s candidates", report.RunID, len(candidates), domain)

	for i := range candidates {
		candidate := &candidates[i]
		report.Processed++

		if candidate.SourceURL != "" {
			seen, err := p.items.SourceSeen(domain, candidate.SourceURL)
			if err != nil {
				log.Printf("run %s: source lookup for %s: %v", report.RunID, candidate.SourceURL, err)
				report.Failed++
				continue
			}
			if seen {
				report.Skipped++
				continue
			}
		}

		item := &models.ContentItem{
			Domain:    domain,
			Title:     candidate.Title,
			Excerpt:   candidate.Excerpt,
			Body:      candidate.Body,
			SourceURL: candidate.SourceURL,
		}

		vector, err := p.embedder.Embed(ctx, profile.EmbeddingText(item))
		if err != nil {
			log.Printf("run %s: embedding %q: %v", report.RunID, candidate.Title, err)
			report.Failed++
			continue
		}

		verdict, err := p.checker.CheckVector(domain, vector, opts)
		if err != nil {
			log.Printf("run %s: checking %q: %v", report.RunID, candidate.Title, err)
			report.Failed++
			continue
		}

		if verdict.IsDuplicate {
			if err := p.recordDuplicate(domain, candidate, verdict); err != nil {
				log.Printf("run %s: recording duplicate of item %d: %v", report.RunID, verdict.MatchedID, err)
				report.Failed++
				continue
			}
			log.Printf("run %s: duplicate of item %d (score %.4f): %q",
				report.RunID, verdict.MatchedID, verdict.Score, candidate.Title)
			report.Duplicates++
			continue
		}

		if err := p.accept(domain, item, vector); err != nil {
			log.Printf("run %s: accepting %q: %v", report.RunID, candidate.Title, err)
			report.Failed++
			continue
		}
		report.Accepted++
	}

	log.Printf("run %s: done: %d accepted, %d duplicates, %d skipped, %d failed",
		report.RunID, report.Accepted, report.Duplicates, report.Skipped, report.Failed)

	return report, nil
}

// recordDuplicate applies the republish policy: counter on the matched item
// plus a seen marker for the candidate's source.
func (p *Pipeline) recordDuplicate(domain models.Domain, candidate *Candidate, verdict *models.Verdict) error {
	if err := p.items.IncrementPublicationCount(verdict.MatchedID, domain); err != nil {
		return err
	}
	if candidate.SourceURL != "" {
		if err := p.items.MarkSourceSeen(domain, candidate.SourceURL); err != nil {
			return err
		}
	}
	return nil
}

// accept persists a new item with its embedding and keeps the cached full
// index consistent for the remainder of the run.
func (p *Pipeline) accept(domain models.Domain, item *models.ContentItem, vector []float64) error {
	if err := p.items.Create(item); err != nil {
		return err
	}
	if err := p.embeddings.Upsert(item.ID, domain, vector); err != nil {
		return err
	}
	if item.SourceURL != "" {
		if err := p.items.MarkSourceSeen(domain, item.SourceURL); err != nil {
			return err
		}
	}
	return p.cache.Extend(domain, item.ID, vector)
}
