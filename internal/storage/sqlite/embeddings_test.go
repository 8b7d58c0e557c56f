// ABOUTME: Tests for embedding storage operations
// ABOUTME: Verifies idempotent upsert, windowed retrieval and deletion
package sqlite

import (
	"math"
	"testing"
	"time"

	"github.com/pressroom/dedup/internal/models"
)

func createItem(t *testing.T, items *ItemStore, domain models.Domain, title string, createdAt time.Time) *models.ContentItem {
	t.Helper()
	item := &models.ContentItem{Domain: domain, Title: title, CreatedAt: createdAt}
	if err := items.Create(item); err != nil {
		t.Fatalf("Create(%q) error = %v", title, err)
	}
	return item
}

func TestEmbeddingUpsertIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)

	item := createItem(t, items, models.DomainArticle, "story", time.Time{})

	if err := store.Upsert(item.ID, models.DomainArticle, []float64{1, 0, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	// Second upsert replaces, never duplicates
	if err := store.Upsert(item.ID, models.DomainArticle, []float64{0, 1, 0}); err != nil {
		t.Fatalf("Upsert() second call error = %v", err)
	}

	count, err := store.Count(models.DomainArticle)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after double upsert, want 1", count)
	}

	emb, err := store.Get(item.ID, models.DomainArticle)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if emb == nil {
		t.Fatal("Get() returned nil")
	}
	if emb.Vector[0] != 0 || emb.Vector[1] != 1 {
		t.Errorf("Vector = %v, want replacement [0 1 0]", emb.Vector)
	}
}

func TestEmbeddingVectorRoundTrip(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)
	item := createItem(t, items, models.DomainArticle, "precision", time.Time{})

	vector := make([]float64, 1536)
	for i := range vector {
		vector[i] = float64(i) / 1536.0
	}
	if err := store.Upsert(item.ID, models.DomainArticle, vector); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	emb, err := store.Get(item.ID, models.DomainArticle)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(emb.Vector) != 1536 {
		t.Fatalf("Vector length = %d, want 1536", len(emb.Vector))
	}
	for i, v := range emb.Vector {
		if math.Abs(v-float64(i)/1536.0) > 1e-12 {
			t.Errorf("Vector[%d] = %v, want %v", i, v, float64(i)/1536.0)
			break
		}
	}
}

func TestEmbeddingGetAllWindow(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)

	now := time.Now().UTC()
	old := createItem(t, items, models.DomainArticle, "ten days ago", now.Add(-240*time.Hour))
	recent := createItem(t, items, models.DomainArticle, "yesterday", now.Add(-24*time.Hour))

	if err := store.Upsert(old.ID, models.DomainArticle, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert(recent.ID, models.DomainArticle, []float64{0, 1}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Full corpus
	all, err := store.GetAll(models.DomainArticle, time.Time{})
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d vectors, want 2", len(all))
	}
	// Ascending item id order is load-bearing for index determinism
	if all[0].ItemID != old.ID || all[1].ItemID != recent.ID {
		t.Errorf("GetAll() order = [%d %d], want [%d %d]", all[0].ItemID, all[1].ItemID, old.ID, recent.ID)
	}

	// Three-day window excludes the ten-day-old item
	windowed, err := store.GetAll(models.DomainArticle, now.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("GetAll(since) error = %v", err)
	}
	if len(windowed) != 1 {
		t.Fatalf("GetAll(since) returned %d vectors, want 1", len(windowed))
	}
	if windowed[0].ItemID != recent.ID {
		t.Errorf("windowed item = %d, want %d", windowed[0].ItemID, recent.ID)
	}
}

func TestEmbeddingGetAllWindowNonUTCCutoff(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)

	now := time.Now().UTC()
	item := createItem(t, items, models.DomainArticle, "in window", now.Add(-time.Hour))
	if err := store.Upsert(item.ID, models.DomainArticle, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// A cutoff two hours before creation, expressed in a zone east of UTC.
	// Naive string comparison against the stored UTC timestamp would drop
	// the item.
	east := time.FixedZone("UTC+5", 5*60*60)
	since := now.Add(-2 * time.Hour).In(east)

	windowed, err := store.GetAll(models.DomainArticle, since)
	if err != nil {
		t.Fatalf("GetAll(since) error = %v", err)
	}
	if len(windowed) != 1 {
		t.Fatalf("GetAll(since) returned %d vectors, want 1", len(windowed))
	}
	if windowed[0].ItemID != item.ID {
		t.Errorf("windowed item = %d, want %d", windowed[0].ItemID, item.ID)
	}

	// And the mirror case: a cutoff after creation expressed west of UTC
	// must still exclude the item.
	west := time.FixedZone("UTC-5", -5*60*60)
	excluded, err := store.GetAll(models.DomainArticle, now.Add(-30*time.Minute).In(west))
	if err != nil {
		t.Fatalf("GetAll(since) error = %v", err)
	}
	if len(excluded) != 0 {
		t.Fatalf("GetAll(since) returned %d vectors, want 0", len(excluded))
	}
}

func TestEmbeddingDomainIsolation(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)

	article := createItem(t, items, models.DomainArticle, "same text", time.Time{})
	job := createItem(t, items, models.DomainJob, "same text", time.Time{})

	if err := store.Upsert(article.ID, models.DomainArticle, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert(job.ID, models.DomainJob, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	articles, err := store.GetAll(models.DomainArticle, time.Time{})
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(articles) != 1 || articles[0].ItemID != article.ID {
		t.Errorf("article domain sees %v, want only item %d", articles, article.ID)
	}
}

func TestEmbeddingDelete(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	items := NewItemStore(db)
	store := NewEmbeddingStore(db)
	item := createItem(t, items, models.DomainJob, "role", time.Time{})

	if err := store.Upsert(item.ID, models.DomainJob, []float64{1}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Delete(item.ID, models.DomainJob); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	emb, err := store.Get(item.ID, models.DomainJob)
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if emb != nil {
		t.Error("Get() should return nil after delete")
	}
}

func TestEmbeddingRejectsEmptyVector(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewEmbeddingStore(db)
	if err := store.Upsert(1, models.DomainArticle, nil); err == nil {
		t.Error("Upsert() should reject empty vector")
	}
}
