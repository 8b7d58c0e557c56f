// ABOUTME: MCP tool handler implementations for the dedup ops server
// ABOUTME: Wraps the duplicate checker with argument parsing and JSON results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pressroom/dedup/internal/core"
	"github.com/pressroom/dedup/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	checker *core.Checker
}

// CheckDuplicate handles the check_duplicate tool
func (h *Handlers) CheckDuplicate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, result := requireDomain(request)
	if result != nil {
		return result, nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	opts := core.CheckOptions{
		Threshold:    request.GetFloat("threshold", 0),
		LookbackDays: request.GetInt("lookback_days", 0),
	}

	verdict, err := h.checker.Check(ctx, domain, text, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}

	return jsonResult(verdict)
}

// IndexStats handles the index_stats tool
func (h *Handlers) IndexStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, result := requireDomain(request)
	if result != nil {
		return result, nil
	}

	stats, err := h.checker.Stats(domain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	return jsonResult(stats)
}

// RebuildIndex handles the rebuild_index tool
func (h *Handlers) RebuildIndex(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, result := requireDomain(request)
	if result != nil {
		return result, nil
	}

	if err := h.checker.Rebuild(domain); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rebuild failed: %v", err)), nil
	}

	stats, err := h.checker.Stats(domain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats after rebuild failed: %v", err)), nil
	}

	return jsonResult(stats)
}

// EncodeMissing handles the encode_missing tool
func (h *Handlers) EncodeMissing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, result := requireDomain(request)
	if result != nil {
		return result, nil
	}

	encoded, err := h.checker.EncodeMissing(ctx, domain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"domain":  domain,
		"encoded": encoded,
	})
}

// RemoveItem handles the remove_item tool
func (h *Handlers) RemoveItem(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, result := requireDomain(request)
	if result != nil {
		return result, nil
	}

	itemID := request.GetInt("item_id", 0)
	if itemID <= 0 {
		return mcp.NewToolResultError("item_id argument is required and must be a positive number"), nil
	}

	if err := h.checker.Remove(int64(itemID), domain); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"domain":  domain,
		"removed": itemID,
	})
}

// requireDomain parses and validates the domain argument shared by all tools
func requireDomain(request mcp.CallToolRequest) (models.Domain, *mcp.CallToolResult) {
	raw, err := request.RequireString("domain")
	if err != nil {
		return "", mcp.NewToolResultError("domain argument is required and must be a string")
	}

	domain := models.Domain(raw)
	if !domain.Valid() {
		return "", mcp.NewToolResultError(fmt.Sprintf("unknown domain %q: must be article or job", raw))
	}
	return domain, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
