package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/canvas"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CanvasSummary is the list form of a business model canvas.
type CanvasSummary struct {
	ID        string `json:"id" jsonschema:"canvas identifier"`
	Title     string `json:"title" jsonschema:"canvas title"`
	UpdatedAt string `json:"updated_at" jsonschema:"RFC3339 timestamp of the last change"`
}

// CanvasView is the full form of a business model canvas.
type CanvasView struct {
	ID        string                `json:"id" jsonschema:"canvas identifier"`
	Title     string                `json:"title" jsonschema:"canvas title"`
	Blocks    map[string][]ItemView `json:"blocks" jsonschema:"items per canvas block, keyed by block name"`
	UpdatedAt string                `json:"updated_at" jsonschema:"RFC3339 timestamp of the last change"`
}

func canvasView(c *canvas.Canvas) CanvasView {
	view := CanvasView{
		ID:        c.ID,
		Title:     c.Title,
		Blocks:    make(map[string][]ItemView, len(canvas.BlockNames)),
		UpdatedAt: formatTimestamp(c.UpdatedAt),
	}
	for _, name := range canvas.BlockNames {
		view.Blocks[string(name)] = itemViews(c.Blocks[name].Items)
	}
	return view
}

// CanvasListInput represents the MCP tool input for listing canvases.
type CanvasListInput struct{}

// CanvasListResult represents the MCP tool output for listing canvases.
type CanvasListResult struct {
	Canvases []CanvasSummary `json:"canvases" jsonschema:"canvases ordered by creation time"`
}

// CanvasListTool defines the MCP tool schema for listing canvases.
func CanvasListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_list",
		Description: "Lists the studio's business model canvases with their identifiers and titles.",
	}
}

// CanvasListHandler executes a canvas list request.
func CanvasListHandler(svc *studio.Service) mcp.ToolHandlerFor[CanvasListInput, CanvasListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CanvasListInput) (*mcp.CallToolResult, CanvasListResult, error) {
		canvases, err := svc.ListCanvases(ctx)
		if err != nil {
			return nil, CanvasListResult{}, fmt.Errorf("canvas list failed: %w", err)
		}
		result := CanvasListResult{Canvases: make([]CanvasSummary, 0, len(canvases))}
		for _, c := range canvases {
			result.Canvases = append(result.Canvases, CanvasSummary{
				ID:        c.ID,
				Title:     c.Title,
				UpdatedAt: formatTimestamp(c.UpdatedAt),
			})
		}
		return nil, result, nil
	}
}

// CanvasGetInput represents the MCP tool input for fetching a canvas.
type CanvasGetInput struct {
	CanvasID string `json:"canvas_id" jsonschema:"canvas identifier"`
}

// CanvasGetResult represents the MCP tool output for fetching a canvas.
type CanvasGetResult struct {
	Canvas CanvasView `json:"canvas" jsonschema:"the canvas with all nine blocks"`
}

// CanvasGetTool defines the MCP tool schema for fetching a canvas.
func CanvasGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_get",
		Description: "Fetches one business model canvas with the items in all nine blocks.",
	}
}

// CanvasGetHandler executes a canvas fetch request.
func CanvasGetHandler(svc *studio.Service) mcp.ToolHandlerFor[CanvasGetInput, CanvasGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CanvasGetInput) (*mcp.CallToolResult, CanvasGetResult, error) {
		c, err := svc.GetCanvas(ctx, input.CanvasID)
		if err != nil {
			return nil, CanvasGetResult{}, fmt.Errorf("canvas get failed: %w", err)
		}
		return nil, CanvasGetResult{Canvas: canvasView(c)}, nil
	}
}

// CanvasItemAddInput represents the MCP tool input for adding a canvas item.
type CanvasItemAddInput struct {
	CanvasID string `json:"canvas_id" jsonschema:"canvas identifier"`
	Block    string `json:"block" jsonschema:"canvas block name, e.g. key_partners or revenue_streams"`
	Content  string `json:"content" jsonschema:"item text"`
	Priority string `json:"priority,omitempty" jsonschema:"optional priority (low, medium, high); defaults to medium"`
}

// CanvasItemAddResult represents the MCP tool output for adding a canvas item.
type CanvasItemAddResult struct {
	Canvas CanvasView `json:"canvas" jsonschema:"the canvas after the change"`
}

// CanvasItemAddTool defines the MCP tool schema for adding a canvas item.
func CanvasItemAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_item_add",
		Description: "Adds an item to a canvas block. Rejects the write when the canvas changed concurrently.",
	}
}

// CanvasItemAddHandler executes a canvas item add request.
func CanvasItemAddHandler(svc *studio.Service) mcp.ToolHandlerFor[CanvasItemAddInput, CanvasItemAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CanvasItemAddInput) (*mcp.CallToolResult, CanvasItemAddResult, error) {
		c, err := svc.AddCanvasItem(ctx, input.CanvasID, input.Block, input.Content, input.Priority)
		if err != nil {
			return nil, CanvasItemAddResult{}, fmt.Errorf("canvas item add failed: %w", err)
		}
		return nil, CanvasItemAddResult{Canvas: canvasView(c)}, nil
	}
}

// CanvasItemUpdateInput represents the MCP tool input for updating a canvas item.
type CanvasItemUpdateInput struct {
	CanvasID string `json:"canvas_id" jsonschema:"canvas identifier"`
	Block    string `json:"block" jsonschema:"canvas block name"`
	ItemID   string `json:"item_id" jsonschema:"item identifier"`
	Content  string `json:"content" jsonschema:"replacement item text"`
	Priority string `json:"priority,omitempty" jsonschema:"optional replacement priority (low, medium, high)"`
}

// CanvasItemUpdateResult represents the MCP tool output for updating a canvas item.
type CanvasItemUpdateResult struct {
	Canvas CanvasView `json:"canvas" jsonschema:"the canvas after the change"`
}

// CanvasItemUpdateTool defines the MCP tool schema for updating a canvas item.
func CanvasItemUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_item_update",
		Description: "Rewrites the content or priority of an existing canvas item.",
	}
}

// CanvasItemUpdateHandler executes a canvas item update request.
func CanvasItemUpdateHandler(svc *studio.Service) mcp.ToolHandlerFor[CanvasItemUpdateInput, CanvasItemUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CanvasItemUpdateInput) (*mcp.CallToolResult, CanvasItemUpdateResult, error) {
		c, err := svc.UpdateCanvasItem(ctx, input.CanvasID, input.Block, input.ItemID, input.Content, input.Priority)
		if err != nil {
			return nil, CanvasItemUpdateResult{}, fmt.Errorf("canvas item update failed: %w", err)
		}
		return nil, CanvasItemUpdateResult{Canvas: canvasView(c)}, nil
	}
}

// CanvasItemRemoveInput represents the MCP tool input for removing a canvas item.
type CanvasItemRemoveInput struct {
	CanvasID string `json:"canvas_id" jsonschema:"canvas identifier"`
	Block    string `json:"block" jsonschema:"canvas block name"`
	ItemID   string `json:"item_id" jsonschema:"item identifier"`
}

// CanvasItemRemoveResult represents the MCP tool output for removing a canvas item.
type CanvasItemRemoveResult struct {
	Canvas CanvasView `json:"canvas" jsonschema:"the canvas after the change"`
}

// CanvasItemRemoveTool defines the MCP tool schema for removing a canvas item.
func CanvasItemRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "canvas_item_remove",
		Description: "Removes an item from a canvas block.",
	}
}

// CanvasItemRemoveHandler executes a canvas item remove request.
func CanvasItemRemoveHandler(svc *studio.Service) mcp.ToolHandlerFor[CanvasItemRemoveInput, CanvasItemRemoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CanvasItemRemoveInput) (*mcp.CallToolResult, CanvasItemRemoveResult, error) {
		c, err := svc.RemoveCanvasItem(ctx, input.CanvasID, input.Block, input.ItemID)
		if err != nil {
			return nil, CanvasItemRemoveResult{}, fmt.Errorf("canvas item remove failed: %w", err)
		}
		return nil, CanvasItemRemoveResult{Canvas: canvasView(c)}, nil
	}
}
