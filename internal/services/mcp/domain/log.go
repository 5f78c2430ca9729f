package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LogEntryCreateInput represents the MCP tool input for capturing a log entry.
type LogEntryCreateInput struct {
	Title string `json:"title" jsonschema:"log entry title"`
	Body  string `json:"body,omitempty" jsonschema:"optional log entry body"`
	Slug  string `json:"slug,omitempty" jsonschema:"optional URL slug; derived from the title when empty"`
}

// LogEntryCreateResult represents the MCP tool output for capturing a log entry.
type LogEntryCreateResult struct {
	ID        string `json:"id" jsonschema:"log entry identifier"`
	Slug      string `json:"slug" jsonschema:"URL slug"`
	Title     string `json:"title" jsonschema:"log entry title"`
	Published bool   `json:"published" jsonschema:"whether the entry is visible on the public site"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp of creation"`
}

// LogEntryCreateTool defines the MCP tool schema for capturing a log entry.
func LogEntryCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "log_entry_create",
		Description: "Captures a draft studio log entry. Entries stay hidden until published from the admin UI.",
	}
}

// LogEntryCreateHandler executes a log entry create request.
func LogEntryCreateHandler(svc *studio.Service) mcp.ToolHandlerFor[LogEntryCreateInput, LogEntryCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LogEntryCreateInput) (*mcp.CallToolResult, LogEntryCreateResult, error) {
		entry, err := svc.CreateLogEntry(ctx, studio.LogEntryInput{
			Slug:  input.Slug,
			Title: input.Title,
			Body:  input.Body,
		})
		if err != nil {
			return nil, LogEntryCreateResult{}, fmt.Errorf("log entry create failed: %w", err)
		}
		return nil, LogEntryCreateResult{
			ID:        entry.ID,
			Slug:      entry.Slug,
			Title:     entry.Title,
			Published: entry.Published,
			CreatedAt: formatTimestamp(entry.CreatedAt),
		}, nil
	}
}
