// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to run dedup checks and maintenance via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pressroom/dedup/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs dedup as an MCP (Model Context Protocol) server over stdio,
exposing duplicate checks and index maintenance as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  dedup mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "dedup": {
  #       "command": "dedup",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - duplicate checks will not work")
	}

	// Checks need the embedder; key presence was warned about above
	eng, err := openEngine(os.Getenv("OPENAI_API_KEY") != "")
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}

	server := mcpserver.NewMCPServer(
		"Pressroom Dedup",
		"0.1.0",
	)

	mcp.RegisterTools(server, eng.checker)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Dedup MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		if err := eng.Close(); err != nil {
			log.Printf("Warning: Error closing database: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
