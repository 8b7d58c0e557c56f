// ABOUTME: MCP tool definitions and registration for the dedup ops server
// ABOUTME: Exposes duplicate checks and maintenance operations as MCP tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pressroom/dedup/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, checker *core.Checker) *Handlers {
	handlers := &Handlers{checker: checker}

	domainProperty := map[string]interface{}{
		"type":        "string",
		"description": "Content domain: article or job",
		"enum":        []string{"article", "job"},
	}

	// 1. check_duplicate - Check candidate text against the similarity index
	server.AddTool(mcp.Tool{
		Name:        "check_duplicate",
		Description: "Check whether candidate text is a near-duplicate of already published content in a domain.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": domainProperty,
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Candidate text, HTML-stripped",
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Similarity threshold override (0-1); configured default when omitted",
				},
				"lookback_days": map[string]interface{}{
					"type":        "number",
					"description": "Lookback window in days; configured default when omitted, -1 for the whole corpus",
				},
			},
			Required: []string{"domain", "text"},
		},
	}, handlers.CheckDuplicate)

	// 2. index_stats - Corpus and index counters for a domain
	server.AddTool(mcp.Tool{
		Name:        "index_stats",
		Description: "Get corpus and similarity index statistics for a domain.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": domainProperty,
			},
			Required: []string{"domain"},
		},
	}, handlers.IndexStats)

	// 3. rebuild_index - Invalidate and rebuild the full index
	server.AddTool(mcp.Tool{
		Name:        "rebuild_index",
		Description: "Invalidate the cached full index for a domain and rebuild it from stored embeddings.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": domainProperty,
			},
			Required: []string{"domain"},
		},
	}, handlers.RebuildIndex)

	// 4. encode_missing - Embed items that have no embedding yet
	server.AddTool(mcp.Tool{
		Name:        "encode_missing",
		Description: "Embed every content item in a domain that lacks an embedding, then rebuild the index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": domainProperty,
			},
			Required: []string{"domain"},
		},
	}, handlers.EncodeMissing)

	// 5. remove_item - Remove one item's embedding from the index
	server.AddTool(mcp.Tool{
		Name:        "remove_item",
		Description: "Delete an item's embedding and rebuild the domain index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": domainProperty,
				"item_id": map[string]interface{}{
					"type":        "number",
					"description": "Content item id",
				},
			},
			Required: []string{"domain", "item_id"},
		},
	}, handlers.RemoveItem)

	return handlers
}
