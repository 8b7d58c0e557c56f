// ABOUTME: Shared test fixtures for the core package
// ABOUTME: Deterministic bag-of-words embedder and wired-up test checker
package core

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pressroom/dedup/internal/config"
	"github.com/pressroom/dedup/internal/index"
	"github.com/pressroom/dedup/internal/models"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

const testDimension = 256

// hashEmbedder hashes lowercased tokens into a fixed-dimension bag-of-words
// vector. Deterministic, so identical text always yields the identical
// vector, and texts sharing tokens score proportionally to their overlap.
type hashEmbedder struct {
	failOn string
	calls  int
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls++
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("cannot embed empty text")
	}
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedding model unavailable")
	}

	vector := make([]float64, testDimension)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?:;\"'")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vector[h.Sum32()%testDimension]++
	}

	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector, nil
}

type testEngine struct {
	db         *sqlite.DB
	items      *sqlite.ItemStore
	embeddings *sqlite.EmbeddingStore
	builder    *index.Builder
	cache      *index.Cache
	embedder   *hashEmbedder
	checker    *Checker
	cfg        *config.Config
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		EmbeddingModel:      "test-hash",
		SimilarityThreshold: 0.85,
		LookbackDays:        3,
		VectorDimension:     testDimension,
	}

	items := sqlite.NewItemStore(db)
	embeddings := sqlite.NewEmbeddingStore(db)
	builder := index.NewBuilder(embeddings)
	cache := index.NewCache(builder)
	embedder := &hashEmbedder{}

	return &testEngine{
		db:         db,
		items:      items,
		embeddings: embeddings,
		builder:    builder,
		cache:      cache,
		embedder:   embedder,
		checker:    NewChecker(embedder, items, embeddings, builder, cache, cfg),
		cfg:        cfg,
	}
}

// addItem stores an item and its embedding, as the pipeline would on accept
func (e *testEngine) addItem(t *testing.T, domain models.Domain, title, body string, createdAt time.Time) *models.ContentItem {
	t.Helper()

	item := &models.ContentItem{Domain: domain, Title: title, Body: body, CreatedAt: createdAt}
	if err := e.items.Create(item); err != nil {
		t.Fatalf("Create(%q) error = %v", title, err)
	}

	profile, _ := models.ProfileFor(domain)
	vector, err := e.embedder.Embed(context.Background(), profile.EmbeddingText(item))
	if err != nil {
		t.Fatalf("Embed(%q) error = %v", title, err)
	}
	if err := e.embeddings.Upsert(item.ID, domain, vector); err != nil {
		t.Fatalf("Upsert(%q) error = %v", title, err)
	}
	return item
}
