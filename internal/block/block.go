// Package block models the ordered item collections stored as JSON columns
// on studio artifacts. A block is one cell of a canvas, journey stage, or
// story map: an ordered list of items with stable identifiers.
package block

import (
	"encoding/json"
	"time"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// MaxContentRunes caps item content length after sanitization.
const MaxContentRunes = 500

// Priority ranks an item within its block.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority value. An empty value defaults to medium.
func ParsePriority(value string) (Priority, error) {
	switch Priority(value) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeBlockItemBadPriority,
			"invalid item priority", map[string]string{"priority": value})
	}
}

// Item is a single entry in a block.
type Item struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Block is an ordered collection of items.
type Block struct {
	Items []Item `json:"items"`
}

// Add appends a validated item. Item ids must be unique within the block.
func (b *Block) Add(item Item) error {
	content, err := CleanContent(item.Content)
	if err != nil {
		return err
	}
	priority, err := ParsePriority(string(item.Priority))
	if err != nil {
		return err
	}
	if b.indexOf(item.ID) >= 0 {
		return apperrors.WithMetadata(apperrors.CodeBlockItemDuplicateID,
			"item id already present in block", map[string]string{"item_id": item.ID})
	}
	item.Content = content
	item.Priority = priority
	b.Items = append(b.Items, item)
	return nil
}

// Update replaces the content and priority of an existing item.
func (b *Block) Update(itemID, content string, priority Priority) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return itemNotFound(itemID)
	}
	clean, err := CleanContent(content)
	if err != nil {
		return err
	}
	parsed, err := ParsePriority(string(priority))
	if err != nil {
		return err
	}
	b.Items[idx].Content = clean
	b.Items[idx].Priority = parsed
	return nil
}

// Remove deletes an item by id.
func (b *Block) Remove(itemID string) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return itemNotFound(itemID)
	}
	b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
	return nil
}

// Reorder rearranges items to match ids. The ids must be a permutation of
// the current item ids; additions or drops are rejected.
func (b *Block) Reorder(ids []string) error {
	if len(ids) != len(b.Items) {
		return reorderMismatch()
	}
	byID := make(map[string]Item, len(b.Items))
	for _, item := range b.Items {
		byID[item.ID] = item
	}
	reordered := make([]Item, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return reorderMismatch()
		}
		delete(byID, id)
		reordered = append(reordered, item)
	}
	b.Items = reordered
	return nil
}

// Get returns the item with the given id.
func (b *Block) Get(itemID string) (Item, bool) {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return Item{}, false
	}
	return b.Items[idx], true
}

// ItemIDs returns the item ids in block order.
func (b *Block) ItemIDs() []string {
	ids := make([]string, len(b.Items))
	for i, item := range b.Items {
		ids[i] = item.ID
	}
	return ids
}

// MarshalJSONColumn encodes the block for storage in a JSON column.
func (b Block) MarshalJSONColumn() ([]byte, error) {
	if b.Items == nil {
		b.Items = []Item{}
	}
	return json.Marshal(b)
}

// UnmarshalJSONColumn decodes a stored JSON column. Empty input yields an
// empty block.
func UnmarshalJSONColumn(data []byte) (Block, error) {
	if len(data) == 0 {
		return Block{Items: []Item{}}, nil
	}
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return Block{}, apperrors.Wrap(apperrors.CodeDatabase, "decode block column", err)
	}
	if b.Items == nil {
		b.Items = []Item{}
	}
	return b, nil
}

func (b *Block) indexOf(itemID string) int {
	for i, item := range b.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func itemNotFound(itemID string) error {
	return apperrors.WithMetadata(apperrors.CodeBlockItemNotFound,
		"item not found in block", map[string]string{"item_id": itemID})
}

func reorderMismatch() error {
	return apperrors.New(apperrors.CodeBlockBadReorder,
		"reorder ids must be a permutation of current item ids")
}
