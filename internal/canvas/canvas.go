// Package canvas models business model canvases: nine named blocks of
// prioritized items under a single optimistic-lock version.
package canvas

import (
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// BlockName identifies one cell of a business model canvas.
type BlockName string

const (
	KeyPartners           BlockName = "key_partners"
	KeyActivities         BlockName = "key_activities"
	KeyResources          BlockName = "key_resources"
	ValuePropositions     BlockName = "value_propositions"
	CustomerRelationships BlockName = "customer_relationships"
	Channels              BlockName = "channels"
	CustomerSegments      BlockName = "customer_segments"
	CostStructure         BlockName = "cost_structure"
	RevenueStreams        BlockName = "revenue_streams"
)

// BlockNames lists the canvas blocks in presentation order.
var BlockNames = []BlockName{
	KeyPartners,
	KeyActivities,
	KeyResources,
	ValuePropositions,
	CustomerRelationships,
	Channels,
	CustomerSegments,
	CostStructure,
	RevenueStreams,
}

// ParseBlockName validates a canvas block name.
func ParseBlockName(value string) (BlockName, error) {
	name := BlockName(value)
	for _, known := range BlockNames {
		if name == known {
			return name, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeBlockUnknownName,
		"unknown canvas block", map[string]string{"block": value})
}

// Canvas is a business model canvas.
type Canvas struct {
	ID        string
	OwnerID   string
	Title     string
	Blocks    map[BlockName]block.Block
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an empty canvas with all nine blocks present.
func New(id, ownerID, title string, now time.Time) (*Canvas, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeCanvasEmptyTitle, "canvas title is required")
	}
	blocks := make(map[BlockName]block.Block, len(BlockNames))
	for _, name := range BlockNames {
		blocks[name] = block.Block{Items: []block.Item{}}
	}
	return &Canvas{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Blocks:    blocks,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename sets a validated title.
func (c *Canvas) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeCanvasEmptyTitle, "canvas title is required")
	}
	c.Title = title
	return nil
}

// Block returns a mutable reference to the named block. Missing blocks are
// materialized empty so canvases created before a block rename stay usable.
func (c *Canvas) Block(name BlockName) (*block.Block, error) {
	if _, err := ParseBlockName(string(name)); err != nil {
		return nil, err
	}
	if c.Blocks == nil {
		c.Blocks = make(map[BlockName]block.Block, len(BlockNames))
	}
	b := c.Blocks[name]
	if b.Items == nil {
		b.Items = []block.Item{}
	}
	c.Blocks[name] = b
	stored := c.Blocks[name]
	return &stored, nil
}

// SetBlock writes back a mutated block.
func (c *Canvas) SetBlock(name BlockName, b block.Block) error {
	if _, err := ParseBlockName(string(name)); err != nil {
		return err
	}
	if c.Blocks == nil {
		c.Blocks = make(map[BlockName]block.Block, len(BlockNames))
	}
	c.Blocks[name] = b
	return nil
}

// ItemCount returns the total number of items across all blocks.
func (c *Canvas) ItemCount() int {
	total := 0
	for _, b := range c.Blocks {
		total += len(b.Items)
	}
	return total
}
