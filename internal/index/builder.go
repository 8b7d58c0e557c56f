// ABOUTME: Builds flat index snapshots from stored embeddings
// ABOUTME: Supports full-corpus and lookback-windowed builds per domain
package index

import (
	"fmt"
	"log"
	"time"

	"github.com/pressroom/dedup/internal/models"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

// Source supplies stored vectors for index construction. Satisfied by
// *sqlite.EmbeddingStore.
type Source interface {
	GetAll(domain models.Domain, since time.Time) ([]sqlite.StoredVector, error)
}

// Builder constructs snapshots from a vector source
type Builder struct {
	source Source
	now    func() time.Time
}

// NewBuilder creates a Builder over the given source
func NewBuilder(source Source) *Builder {
	return &Builder{source: source, now: time.Now}
}

// SetClock overrides the time source (for tests)
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// Build fetches a domain's vectors, optionally windowed to the last
// lookbackDays days, and indexes them in ascending item id order. A domain
// with no embeddings yields the empty-sentinel snapshot, not an error;
// searching it finds no duplicates.
func (b *Builder) Build(domain models.Domain, lookbackDays int) (*Snapshot, error) {
	var since time.Time
	if lookbackDays > 0 {
		// UTC to match stored creation times; the driver compares
		// timestamps as strings
		since = b.now().UTC().Add(-time.Duration(lookbackDays) * 24 * time.Hour)
		log.Printf("building %s index with %d-day lookback (since %s)",
			domain, lookbackDays, since.Format("2006-01-02"))
	}

	vectors, err := b.source.GetAll(domain, since)
	if err != nil {
		return nil, fmt.Errorf("loading %s embeddings: %w", domain, err)
	}

	if len(vectors) == 0 {
		return NewSnapshot(0), nil
	}

	snapshot := NewSnapshot(len(vectors[0].Vector))
	for _, sv := range vectors {
		if err := snapshot.Add(sv.ItemID, sv.Vector); err != nil {
			return nil, fmt.Errorf("indexing item %d: %w", sv.ItemID, err)
		}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	log.Printf("built %s index with %d vectors", domain, snapshot.Len())
	return snapshot, nil
}
