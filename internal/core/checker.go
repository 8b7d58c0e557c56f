// ABOUTME: Duplicate checker orchestrating embed, index lookup and verdict
// ABOUTME: One generic implementation serves both article and job domains
package core

import (
	"context"
	"fmt"

	"github.com/pressroom/dedup/internal/config"
	"github.com/pressroom/dedup/internal/index"
	"github.com/pressroom/dedup/internal/models"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

// Embedder turns text into an L2-normalized vector. Satisfied by
// *llm.OpenAIClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// LookbackAll requests a search over the entire corpus, no window
const LookbackAll = -1

// CheckOptions tune a single duplicate check. Zero values mean "use the
// configured defaults".
type CheckOptions struct {
	// Threshold overrides the configured similarity threshold when > 0
	Threshold float64
	// LookbackDays restricts the search window: 0 uses the configured
	// default, LookbackAll searches the whole corpus
	LookbackDays int
	// ExcludeID drops this item id from results (self-exclusion)
	ExcludeID int64
}

// Checker answers "is this a near-duplicate of something already published?"
type Checker struct {
	embedder   Embedder
	items      *sqlite.ItemStore
	embeddings *sqlite.EmbeddingStore
	builder    *index.Builder
	cache      *index.Cache

	threshold    float64
	lookbackDays int
	dimension    int
}

// NewChecker wires a Checker from its collaborators and configuration
func NewChecker(embedder Embedder, items *sqlite.ItemStore, embeddings *sqlite.EmbeddingStore,
	builder *index.Builder, cache *index.Cache, cfg *config.Config) *Checker {
	return &Checker{
		embedder:     embedder,
		items:        items,
		embeddings:   embeddings,
		builder:      builder,
		cache:        cache,
		threshold:    cfg.SimilarityThreshold,
		lookbackDays: cfg.LookbackDays,
		dimension:    cfg.VectorDimension,
	}
}

// Check embeds raw candidate text and searches the domain's index.
// An embedding failure is returned to the caller, who should treat the item
// as skipped rather than aborting its batch.
func (c *Checker) Check(ctx context.Context, domain models.Domain, text string, opts CheckOptions) (*models.Verdict, error) {
	if _, ok := models.ProfileFor(domain); !ok {
		return nil, fmt.Errorf("unknown domain: %q", domain)
	}
	if c.embedder == nil {
		return nil, fmt.Errorf("no embedder configured: set OPENAI_API_KEY")
	}

	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding candidate: %w", err)
	}

	return c.CheckVector(domain, vector, opts)
}

// CheckItem checks an already-stored item against the rest of its domain,
// excluding the item itself from the results.
func (c *Checker) CheckItem(ctx context.Context, item *models.ContentItem, opts CheckOptions) (*models.Verdict, error) {
	profile, ok := models.ProfileFor(item.Domain)
	if !ok {
		return nil, fmt.Errorf("unknown domain: %q", item.Domain)
	}

	opts.ExcludeID = item.ID
	return c.Check(ctx, item.Domain, profile.EmbeddingText(item), opts)
}

// CheckVector runs the search half of a check with a pre-computed embedding.
// The ingestion pipeline uses this to embed once and reuse the vector for
// storage on acceptance.
func (c *Checker) CheckVector(domain models.Domain, vector []float64, opts CheckOptions) (*models.Verdict, error) {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = c.threshold
	}

	snapshot, err := c.snapshotFor(domain, opts.LookbackDays)
	if err != nil {
		return nil, err
	}

	verdict := &models.Verdict{}
	if snapshot.Len() == 0 {
		return verdict, nil
	}

	// k+1 so a self-match can be dropped without losing the real best hit
	hits := snapshot.Search(vector, 2)
	for _, hit := range hits {
		if opts.ExcludeID != 0 && hit.ItemID == opts.ExcludeID {
			continue
		}
		verdict.Score = hit.Score
		if hit.Score >= threshold {
			verdict.IsDuplicate = true
			verdict.MatchedID = hit.ItemID
			if item, err := c.items.Get(hit.ItemID, domain); err == nil && item != nil {
				verdict.MatchedTitle = item.Title
			}
		}
		break
	}

	return verdict, nil
}

// Stats reports corpus and index counters for one domain
func (c *Checker) Stats(domain models.Domain) (*models.IndexStats, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("unknown domain: %q", domain)
	}

	total, err := c.items.Count(domain)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	withEmbeddings, err := c.embeddings.Count(domain)
	if err != nil {
		return nil, fmt.Errorf("counting embeddings: %w", err)
	}
	missing, err := c.embeddings.CountMissing(domain)
	if err != nil {
		return nil, fmt.Errorf("counting missing: %w", err)
	}

	snapshot, err := c.cache.GetOrBuildFull(domain)
	if err != nil {
		return nil, fmt.Errorf("loading full index: %w", err)
	}

	return &models.IndexStats{
		Domain:         domain,
		TotalItems:     total,
		WithEmbeddings: withEmbeddings,
		Indexed:        snapshot.Len(),
		Missing:        missing,
		Dimension:      snapshot.Dimension(),
		Threshold:      c.threshold,
	}, nil
}

// snapshotFor resolves the window and fetches the right index: the cached
// full snapshot for whole-corpus searches, a fresh windowed build otherwise.
func (c *Checker) snapshotFor(domain models.Domain, lookbackDays int) (*index.Snapshot, error) {
	if lookbackDays == 0 {
		lookbackDays = c.lookbackDays
	}
	if lookbackDays == LookbackAll || lookbackDays == 0 {
		return c.cache.GetOrBuildFull(domain)
	}
	return c.builder.Build(domain, lookbackDays)
}
