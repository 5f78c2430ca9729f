package studio

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/block"
	"github.com/louisbranch/atelier.studio/internal/canvas"
)

// CreateCanvas creates an empty business model canvas.
func (s *Service) CreateCanvas(ctx context.Context, title string) (*canvas.Canvas, error) {
	canvasID, err := s.newID()
	if err != nil {
		return nil, err
	}
	c, err := canvas.New(canvasID, actorOrDefault(ctx), title, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCanvas(ctx, c); err != nil {
		return nil, err
	}
	s.record(ctx, "canvas.created", "canvas", c.ID, fmt.Sprintf("Created canvas %q", c.Title))
	return c, nil
}

// GetCanvas loads a canvas by id.
func (s *Service) GetCanvas(ctx context.Context, canvasID string) (*canvas.Canvas, error) {
	return s.store.GetCanvas(ctx, canvasID)
}

// ListCanvases returns every canvas, most recently updated first.
func (s *Service) ListCanvases(ctx context.Context) ([]*canvas.Canvas, error) {
	return s.store.ListCanvases(ctx)
}

// RenameCanvas changes a canvas title.
func (s *Service) RenameCanvas(ctx context.Context, canvasID, title string) (*canvas.Canvas, error) {
	return s.mutateCanvas(ctx, canvasID, "canvas.renamed", func(c *canvas.Canvas) error {
		return c.Rename(title)
	})
}

// DeleteCanvas removes a canvas.
func (s *Service) DeleteCanvas(ctx context.Context, canvasID string) error {
	if err := s.store.DeleteCanvas(ctx, canvasID); err != nil {
		return err
	}
	s.record(ctx, "canvas.deleted", "canvas", canvasID, "Deleted canvas")
	return nil
}

// AddCanvasItem appends a sanitized item to one canvas block.
func (s *Service) AddCanvasItem(ctx context.Context, canvasID, blockName, content, priority string) (*canvas.Canvas, error) {
	name, err := canvas.ParseBlockName(blockName)
	if err != nil {
		return nil, err
	}
	item, err := s.newItem(content, priority)
	if err != nil {
		return nil, err
	}
	return s.mutateCanvas(ctx, canvasID, "canvas.item_added", func(c *canvas.Canvas) error {
		b, err := c.Block(name)
		if err != nil {
			return err
		}
		if err := b.Add(item); err != nil {
			return err
		}
		return c.SetBlock(name, *b)
	})
}

// UpdateCanvasItem rewrites one item's content and priority.
func (s *Service) UpdateCanvasItem(ctx context.Context, canvasID, blockName, itemID, content, priority string) (*canvas.Canvas, error) {
	name, err := canvas.ParseBlockName(blockName)
	if err != nil {
		return nil, err
	}
	cleaned, err := block.CleanContent(content)
	if err != nil {
		return nil, err
	}
	parsedPriority, err := block.ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	return s.mutateCanvas(ctx, canvasID, "canvas.item_updated", func(c *canvas.Canvas) error {
		b, err := c.Block(name)
		if err != nil {
			return err
		}
		if err := b.Update(itemID, cleaned, parsedPriority); err != nil {
			return err
		}
		return c.SetBlock(name, *b)
	})
}

// RemoveCanvasItem deletes one item from a canvas block.
func (s *Service) RemoveCanvasItem(ctx context.Context, canvasID, blockName, itemID string) (*canvas.Canvas, error) {
	name, err := canvas.ParseBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateCanvas(ctx, canvasID, "canvas.item_removed", func(c *canvas.Canvas) error {
		b, err := c.Block(name)
		if err != nil {
			return err
		}
		if err := b.Remove(itemID); err != nil {
			return err
		}
		return c.SetBlock(name, *b)
	})
}

// ReorderCanvasBlock rearranges one block's items. The ids must be a
// permutation of the block's current item ids.
func (s *Service) ReorderCanvasBlock(ctx context.Context, canvasID, blockName string, ids []string) (*canvas.Canvas, error) {
	name, err := canvas.ParseBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateCanvas(ctx, canvasID, "canvas.block_reordered", func(c *canvas.Canvas) error {
		b, err := c.Block(name)
		if err != nil {
			return err
		}
		if err := b.Reorder(ids); err != nil {
			return err
		}
		return c.SetBlock(name, *b)
	})
}

func (s *Service) mutateCanvas(ctx context.Context, canvasID, eventName string, mutate func(*canvas.Canvas) error) (*canvas.Canvas, error) {
	c, err := s.store.GetCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	expected := c.UpdatedAt
	if err := mutate(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateCanvas(ctx, c, expected); err != nil {
		return nil, err
	}
	s.record(ctx, eventName, "canvas", c.ID, fmt.Sprintf("Updated canvas %q", c.Title))
	return c, nil
}

// newItem builds a sanitized block item with a fresh id.
func (s *Service) newItem(content, priority string) (block.Item, error) {
	cleaned, err := block.CleanContent(content)
	if err != nil {
		return block.Item{}, err
	}
	parsedPriority, err := block.ParsePriority(priority)
	if err != nil {
		return block.Item{}, err
	}
	itemID, err := s.newID()
	if err != nil {
		return block.Item{}, err
	}
	return block.Item{
		ID:        itemID,
		Content:   cleaned,
		Priority:  parsedPriority,
		CreatedAt: s.nowUTC(),
	}, nil
}
