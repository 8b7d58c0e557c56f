// ABOUTME: Shared utility functions and engine wiring for CLI commands
// ABOUTME: Opens config, database, stores, and checker used by all subcommands
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/pressroom/dedup/internal/config"
	"github.com/pressroom/dedup/internal/core"
	"github.com/pressroom/dedup/internal/index"
	"github.com/pressroom/dedup/internal/llm"
	"github.com/pressroom/dedup/internal/models"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

// engine bundles the wired components a command needs
type engine struct {
	cfg        *config.Config
	db         *sqlite.DB
	items      *sqlite.ItemStore
	embeddings *sqlite.EmbeddingStore
	cache      *index.Cache
	checker    *core.Checker
	pipeline   *core.Pipeline
}

// openEngine loads configuration and wires stores, index, and checker.
// Commands that only read or rebuild the index pass needEmbedder=false
// so they work without an OpenAI API key.
func openEngine(needEmbedder bool) (*engine, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	var embedder core.Embedder
	if needEmbedder {
		client, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
		embedder = client
	}

	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	items := sqlite.NewItemStore(db)
	embeddings := sqlite.NewEmbeddingStore(db)
	builder := index.NewBuilder(embeddings)
	cache := index.NewCache(builder)
	checker := core.NewChecker(embedder, items, embeddings, builder, cache, cfg)

	return &engine{
		cfg:        cfg,
		db:         db,
		items:      items,
		embeddings: embeddings,
		cache:      cache,
		checker:    checker,
		pipeline:   core.NewPipeline(checker, embedder, items, embeddings, cache),
	}, nil
}

// Close releases the engine's database connection
func (e *engine) Close() error {
	return e.db.Close()
}

// parseDomain validates a domain argument from the command line
func parseDomain(arg string) (models.Domain, error) {
	domain := models.Domain(arg)
	if !domain.Valid() {
		return "", fmt.Errorf("unknown domain %q (expected article or job)", arg)
	}
	return domain, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}
