// ABOUTME: Main entry point for the dedup MCP server with stdio transport
// ABOUTME: Initializes config, storage, index cache, and MCP server with all tools
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pressroom/dedup/internal/config"
	"github.com/pressroom/dedup/internal/core"
	"github.com/pressroom/dedup/internal/index"
	"github.com/pressroom/dedup/internal/llm"
	"github.com/pressroom/dedup/internal/mcp"
	"github.com/pressroom/dedup/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Embedder is optional; without a key only maintenance tools work
	var embedder core.Embedder
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - duplicate checks will not work")
	} else {
		client, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI client: %v", err)
		}
		embedder = client
	}

	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	items := sqlite.NewItemStore(db)
	embeddings := sqlite.NewEmbeddingStore(db)
	builder := index.NewBuilder(embeddings)
	cache := index.NewCache(builder)
	checker := core.NewChecker(embedder, items, embeddings, builder, cache, cfg)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Pressroom Dedup",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, checker)

	// Start server with stdio transport
	log.Println("Dedup MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
