package domain

import (
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
)

// ItemView is the wire form of a block item in tool results.
type ItemView struct {
	ID       string `json:"id" jsonschema:"item identifier"`
	Content  string `json:"content" jsonschema:"item text"`
	Priority string `json:"priority" jsonschema:"item priority (low, medium, high)"`
}

func itemViews(items []block.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ID:       item.ID,
			Content:  item.Content,
			Priority: string(item.Priority),
		})
	}
	return views
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
