package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValueMapSummary is the list form of a value proposition map.
type ValueMapSummary struct {
	ID        string `json:"id" jsonschema:"value map identifier"`
	Title     string `json:"title" jsonschema:"value map title"`
	ProfileID string `json:"profile_id" jsonschema:"customer profile the map is bound to"`
	FitScore  int    `json:"fit_score" jsonschema:"stored fit score, 0 to 100"`
	UpdatedAt string `json:"updated_at" jsonschema:"RFC3339 timestamp of the last change"`
}

// ValueMapListInput represents the MCP tool input for listing value maps.
type ValueMapListInput struct{}

// ValueMapListResult represents the MCP tool output for listing value maps.
type ValueMapListResult struct {
	ValueMaps []ValueMapSummary `json:"value_maps" jsonschema:"value maps ordered by creation time"`
}

// ValueMapListTool defines the MCP tool schema for listing value maps.
func ValueMapListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "value_map_list",
		Description: "Lists the studio's value proposition maps with their stored fit scores.",
	}
}

// ValueMapListHandler executes a value map list request.
func ValueMapListHandler(svc *studio.Service) mcp.ToolHandlerFor[ValueMapListInput, ValueMapListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ValueMapListInput) (*mcp.CallToolResult, ValueMapListResult, error) {
		maps, err := svc.ListValueMaps(ctx)
		if err != nil {
			return nil, ValueMapListResult{}, fmt.Errorf("value map list failed: %w", err)
		}
		result := ValueMapListResult{ValueMaps: make([]ValueMapSummary, 0, len(maps))}
		for _, m := range maps {
			result.ValueMaps = append(result.ValueMaps, ValueMapSummary{
				ID:        m.ID,
				Title:     m.Title,
				ProfileID: m.ProfileID,
				FitScore:  m.FitScore,
				UpdatedAt: formatTimestamp(m.UpdatedAt),
			})
		}
		return nil, result, nil
	}
}

// FitGap names a profile item no value map item is linked to.
type FitGap struct {
	Block   string `json:"block" jsonschema:"profile block the unaddressed item lives in"`
	ItemID  string `json:"item_id" jsonschema:"unaddressed item identifier"`
	Content string `json:"content" jsonschema:"unaddressed item text"`
}

// FitReportInput represents the MCP tool input for computing a fit report.
type FitReportInput struct {
	ValueMapID string `json:"value_map_id" jsonschema:"value map identifier"`
}

// FitReportResult represents the MCP tool output for computing a fit report.
type FitReportResult struct {
	Score     int      `json:"score" jsonschema:"percentage of profile items addressed, 0 to 100"`
	Addressed int      `json:"addressed" jsonschema:"number of profile items linked from the value map"`
	Total     int      `json:"total" jsonschema:"number of profile items"`
	Gaps      []FitGap `json:"gaps" jsonschema:"profile items the value map does not address"`
}

// FitReportTool defines the MCP tool schema for computing a fit report.
func FitReportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "fit_report",
		Description: "Scores a value map against its customer profile and lists the unaddressed profile items.",
	}
}

// FitReportHandler executes a fit report request.
func FitReportHandler(svc *studio.Service) mcp.ToolHandlerFor[FitReportInput, FitReportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FitReportInput) (*mcp.CallToolResult, FitReportResult, error) {
		report, err := svc.FitReport(ctx, input.ValueMapID)
		if err != nil {
			return nil, FitReportResult{}, fmt.Errorf("fit report failed: %w", err)
		}
		result := FitReportResult{
			Score:     report.Score,
			Addressed: report.Addressed,
			Total:     report.Total,
			Gaps:      make([]FitGap, 0, len(report.Gaps)),
		}
		for _, gap := range report.Gaps {
			result.Gaps = append(result.Gaps, FitGap{
				Block:   string(gap.Block),
				ItemID:  gap.Item.ID,
				Content: gap.Item.Content,
			})
		}
		return nil, result, nil
	}
}
