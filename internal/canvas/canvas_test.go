package canvas

import (
	"testing"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func TestNewRequiresTitle(t *testing.T) {
	_, err := New("c1", "u1", "   ", time.Now())
	if apperrors.CodeOf(err) != apperrors.CodeCanvasEmptyTitle {
		t.Fatalf("expected empty title error, got %v", err)
	}
}

func TestNewMaterializesAllBlocks(t *testing.T) {
	c, err := New("c1", "u1", "Bakery", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(c.Blocks) != len(BlockNames) {
		t.Fatalf("expected %d blocks, got %d", len(BlockNames), len(c.Blocks))
	}
	for _, name := range BlockNames {
		b, ok := c.Blocks[name]
		if !ok {
			t.Fatalf("missing block %s", name)
		}
		if b.Items == nil {
			t.Fatalf("block %s has nil items", name)
		}
	}
}

func TestParseBlockName(t *testing.T) {
	if _, err := ParseBlockName("key_partners"); err != nil {
		t.Fatalf("parse known block: %v", err)
	}
	_, err := ParseBlockName("swot")
	if apperrors.CodeOf(err) != apperrors.CodeBlockUnknownName {
		t.Fatalf("expected unknown block error, got %v", err)
	}
}

func TestBlockMutationRoundTrip(t *testing.T) {
	c, err := New("c1", "u1", "Bakery", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := c.Block(Channels)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := b.Add(block.Item{ID: "i1", Content: "Farmers market stall", Priority: block.PriorityHigh}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.SetBlock(Channels, *b); err != nil {
		t.Fatalf("set block: %v", err)
	}
	stored, err := c.Block(Channels)
	if err != nil {
		t.Fatalf("re-read block: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Content != "Farmers market stall" {
		t.Fatalf("unexpected stored block %+v", stored)
	}
	if c.ItemCount() != 1 {
		t.Fatalf("ItemCount = %d, want 1", c.ItemCount())
	}
}

func TestBlockMaterializesMissing(t *testing.T) {
	c := &Canvas{ID: "c1", Title: "Sparse"}
	b, err := c.Block(CostStructure)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if b.Items == nil {
		t.Fatal("expected materialized empty items")
	}
}

func TestRename(t *testing.T) {
	c, err := New("c1", "u1", "Old", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Rename("  New Name "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if c.Title != "New Name" {
		t.Fatalf("Title = %q", c.Title)
	}
	if err := c.Rename(""); apperrors.CodeOf(err) != apperrors.CodeCanvasEmptyTitle {
		t.Fatalf("expected empty title error, got %v", err)
	}
}
