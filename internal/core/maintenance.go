// ABOUTME: Maintenance operations: encode missing items, rebuild, remove
// ABOUTME: Invoked by operational tooling, never on the hot ingestion path
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/pressroom/dedup/internal/models"
)

// EncodeMissing embeds every content item in the domain that lacks an
// embedding, then rebuilds the full index. Per-item failures are logged and
// skipped; the pass continues. Returns the number of items encoded.
func (c *Checker) EncodeMissing(ctx context.Context, domain models.Domain) (int, error) {
	profile, ok := models.ProfileFor(domain)
	if !ok {
		return 0, fmt.Errorf("unknown domain: %q", domain)
	}
	if c.embedder == nil {
		return 0, fmt.Errorf("no embedder configured: set OPENAI_API_KEY")
	}

	missing, err := c.items.MissingEmbeddings(domain)
	if err != nil {
		return 0, fmt.Errorf("listing unembedded items: %w", err)
	}
	if len(missing) == 0 {
		log.Printf("all %s items already have embeddings", domain)
		return 0, nil
	}

	log.Printf("encoding %d %s items", len(missing), domain)

	encoded := 0
	for i := range missing {
		item := &missing[i]

		vector, err := c.embedder.Embed(ctx, profile.EmbeddingText(item))
		if err != nil {
			log.Printf("skipping %s item %d: %v", domain, item.ID, err)
			continue
		}
		if err := c.embeddings.Upsert(item.ID, domain, vector); err != nil {
			log.Printf("skipping %s item %d: storing embedding: %v", domain, item.ID, err)
			continue
		}
		encoded++

		if encoded%10 == 0 {
			log.Printf("encoded %d/%d %s items", encoded, len(missing), domain)
		}
	}

	if err := c.Rebuild(domain); err != nil {
		return encoded, err
	}
	return encoded, nil
}

// Rebuild invalidates the cached full index and eagerly rebuilds it
func (c *Checker) Rebuild(domain models.Domain) error {
	if !domain.Valid() {
		return fmt.Errorf("unknown domain: %q", domain)
	}

	c.cache.Invalidate(domain)
	snapshot, err := c.cache.GetOrBuildFull(domain)
	if err != nil {
		return fmt.Errorf("rebuilding %s index: %w", domain, err)
	}

	log.Printf("rebuilt %s index with %d vectors", domain, snapshot.Len())
	return nil
}

// Remove deletes an item's embedding and rebuilds the index. The flat
// search structure has no in-place deletion, so removal is rebuild-and-swap.
func (c *Checker) Remove(itemID int64, domain models.Domain) error {
	if !domain.Valid() {
		return fmt.Errorf("unknown domain: %q", domain)
	}

	if err := c.embeddings.Delete(itemID, domain); err != nil {
		return fmt.Errorf("deleting embedding for item %d: %w", itemID, err)
	}

	return c.Rebuild(domain)
}
