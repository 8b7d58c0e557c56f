// ABOUTME: Tests for the batch ingestion pipeline
// ABOUTME: Verifies republish policy, same-run dedup and partial failure counts
package core

import (
	"context"
	"testing"
	"time"

	"github.com/pressroom/dedup/internal/models"
)

func newTestPipeline(e *testEngine) *Pipeline {
	return NewPipeline(e.checker, e.embedder, e.items, e.embeddings, e.cache)
}

func TestPipelineAcceptsNewItems(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://a.example/1", Title: "Flood warning for coastal regions", Body: "Heavy rain expected."},
		{SourceURL: "https://a.example/2", Title: "Stock market rallies on tech earnings", Body: "Indexes climbed."},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Accepted != 2 || report.Duplicates != 0 || report.Failed != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 2 accepted", report)
	}
	if report.RunID == "" {
		t.Error("report missing run id")
	}

	count, err := e.items.Count(models.DomainArticle)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("item count = %d, want 2", count)
	}
	missing, err := e.embeddings.CountMissing(models.DomainArticle)
	if err != nil {
		t.Fatalf("CountMissing() error = %v", err)
	}
	if missing != 0 {
		t.Errorf("accepted items missing embeddings: %d", missing)
	}
}

func TestPipelineDetectsDuplicateWithinSameRun(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	// Second candidate is a republication of the first from another source.
	// The check must see the first acceptance from earlier in this run.
	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://a.example/1", Title: "Flood warning for coastal regions", Body: "Heavy rain expected."},
		{SourceURL: "https://b.example/1", Title: "Flood warning for coastal regions", Body: "Heavy rain expected."},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", report.Accepted)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}

	// Republish policy: counter incremented AND source marked seen
	items, err := e.items.MissingEmbeddings(models.DomainArticle)
	if err != nil {
		t.Fatalf("MissingEmbeddings() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("unexpected unembedded items: %d", len(items))
	}

	accepted, err := e.items.Get(1, models.DomainArticle)
	if err != nil || accepted == nil {
		t.Fatalf("Get() error = %v", err)
	}
	if accepted.PublicationCount != 1 {
		t.Errorf("PublicationCount = %d, want 1", accepted.PublicationCount)
	}

	seen, err := e.items.SourceSeen(models.DomainArticle, "https://b.example/1")
	if err != nil {
		t.Fatalf("SourceSeen() error = %v", err)
	}
	if !seen {
		t.Error("duplicate's source URL should be marked seen")
	}
}

func TestPipelineSkipsSeenSources(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	url := "https://a.example/1"
	if err := e.items.MarkSourceSeen(models.DomainArticle, url); err != nil {
		t.Fatalf("MarkSourceSeen() error = %v", err)
	}

	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: url, Title: "Already handled story", Body: "text"},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Skipped != 1 || report.Accepted != 0 {
		t.Errorf("report = %+v, want 1 skipped", report)
	}
	// No embedding work for skipped candidates
	if e.embedder.calls != 0 {
		t.Errorf("embedder called %d times for a skipped candidate", e.embedder.calls)
	}
}

func TestPipelineContinuesPastFailures(t *testing.T) {
	e := newTestEngine(t)
	e.embedder.failOn = "poison"
	p := newTestPipeline(e)

	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://a.example/1", Title: "poison headline", Body: "text"},
		{SourceURL: "https://a.example/2", Title: "Clean headline about sports", Body: "text"},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v (per-item failures must not abort the run)", err)
	}

	if report.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Failed)
	}
	if report.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", report.Accepted)
	}

	// A failed item is not marked seen, so a later run can retry it
	seen, err := e.items.SourceSeen(models.DomainArticle, "https://a.example/1")
	if err != nil {
		t.Fatalf("SourceSeen() error = %v", err)
	}
	if seen {
		t.Error("failed candidate should not be marked seen")
	}
}

func TestPipelineExtendsCachedFullIndex(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	// Warm the full-index cache before the run
	if _, err := e.cache.GetOrBuildFull(models.DomainArticle); err != nil {
		t.Fatalf("GetOrBuildFull() error = %v", err)
	}

	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://a.example/1", Title: "Fresh story about local elections", Body: "text"},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Accepted != 1 {
		t.Fatalf("Accepted = %d, want 1", report.Accepted)
	}

	if got := e.cache.CachedCount(models.DomainArticle); got != 1 {
		t.Errorf("CachedCount = %d after acceptance, want 1", got)
	}

	// The cached full index now answers for the fresh item
	verdict, err := e.checker.Check(context.Background(), models.DomainArticle,
		"Fresh story about local elections", CheckOptions{LookbackDays: LookbackAll})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !verdict.IsDuplicate {
		t.Errorf("cached full index missed the fresh item (score %v)", verdict.Score)
	}
}

func TestPipelineJobDomain(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	// Jobs embed role + description; excerpt is not part of the job profile
	report, err := p.Run(context.Background(), models.DomainJob, []Candidate{
		{SourceURL: "https://jobs.example/1", Title: "Backend Engineer", Body: "Build and run Go services."},
		{SourceURL: "https://jobs.example/2", Title: "Backend Engineer", Body: "Build and run Go services."},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Accepted != 1 || report.Duplicates != 1 {
		t.Errorf("report = %+v, want 1 accepted and 1 duplicate", report)
	}
}

func TestPipelineRejectsUnknownDomain(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	if _, err := p.Run(context.Background(), "podcast", nil, CheckOptions{}); err == nil {
		t.Error("Run() should reject unknown domain")
	}
}

func TestPipelineOldDuplicateOutsideWindow(t *testing.T) {
	e := newTestEngine(t)
	p := newTestPipeline(e)

	// An identical article published ten days ago is outside the default
	// 3-day window, so the candidate is treated as fresh
	e.addItem(t, models.DomainArticle, "Flood warning for coastal regions", "Heavy rain expected.",
		time.Now().UTC().Add(-240*time.Hour))

	report, err := p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://a.example/1", Title: "Flood warning for coastal regions", Body: "Heavy rain expected."},
	}, CheckOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Accepted != 1 || report.Duplicates != 0 {
		t.Errorf("report = %+v, want acceptance outside the window", report)
	}

	// With the whole corpus in scope the same candidate is a duplicate
	report, err = p.Run(context.Background(), models.DomainArticle, []Candidate{
		{SourceURL: "https://b.example/1", Title: "Flood warning for coastal regions", Body: "Heavy rain expected."},
	}, CheckOptions{LookbackDays: LookbackAll})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Duplicates != 1 {
		t.Errorf("report = %+v, want duplicate over full corpus", report)
	}
}
