// Package vpc models value proposition canvases: a customer profile of
// jobs, pains, and gains linked to a value map whose items address them.
package vpc

import (
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// ProfileBlockName identifies one section of a customer profile.
type ProfileBlockName string

const (
	Jobs  ProfileBlockName = "jobs"
	Pains ProfileBlockName = "pains"
	Gains ProfileBlockName = "gains"
)

// ProfileBlockNames lists the profile sections in presentation order.
var ProfileBlockNames = []ProfileBlockName{Jobs, Pains, Gains}

// MapBlockName identifies one section of a value map.
type MapBlockName string

const (
	ProductsServices MapBlockName = "products_services"
	PainRelievers    MapBlockName = "pain_relievers"
	GainCreators     MapBlockName = "gain_creators"
)

// MapBlockNames lists the value map sections in presentation order.
var MapBlockNames = []MapBlockName{ProductsServices, PainRelievers, GainCreators}

// ParseProfileBlockName validates a profile section name.
func ParseProfileBlockName(value string) (ProfileBlockName, error) {
	name := ProfileBlockName(value)
	for _, known := range ProfileBlockNames {
		if name == known {
			return name, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeBlockUnknownName,
		"unknown profile block", map[string]string{"block": value})
}

// ParseMapBlockName validates a value map section name.
func ParseMapBlockName(value string) (MapBlockName, error) {
	name := MapBlockName(value)
	for _, known := range MapBlockNames {
		if name == known {
			return name, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeBlockUnknownName,
		"unknown value map block", map[string]string{"block": value})
}

// CustomerProfile captures what a customer segment is trying to get done.
type CustomerProfile struct {
	ID        string
	OwnerID   string
	Title     string
	Blocks    map[ProfileBlockName]block.Block
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates an empty customer profile.
func NewProfile(id, ownerID, title string, now time.Time) (*CustomerProfile, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeProfileEmptyTitle, "profile title is required")
	}
	blocks := make(map[ProfileBlockName]block.Block, len(ProfileBlockNames))
	for _, name := range ProfileBlockNames {
		blocks[name] = block.Block{Items: []block.Item{}}
	}
	return &CustomerProfile{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Blocks:    blocks,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename changes the profile title.
func (p *CustomerProfile) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeProfileEmptyTitle, "profile title is required")
	}
	p.Title = title
	return nil
}

// Block returns a copy of the named profile block.
func (p *CustomerProfile) Block(name ProfileBlockName) (*block.Block, error) {
	if _, err := ParseProfileBlockName(string(name)); err != nil {
		return nil, err
	}
	b := p.Blocks[name]
	if b.Items == nil {
		b.Items = []block.Item{}
	}
	return &b, nil
}

// SetBlock writes back a mutated profile block.
func (p *CustomerProfile) SetBlock(name ProfileBlockName, b block.Block) error {
	if _, err := ParseProfileBlockName(string(name)); err != nil {
		return err
	}
	if p.Blocks == nil {
		p.Blocks = make(map[ProfileBlockName]block.Block, len(ProfileBlockNames))
	}
	p.Blocks[name] = b
	return nil
}

// ItemCount returns the total number of profile items.
func (p *CustomerProfile) ItemCount() int {
	total := 0
	for _, b := range p.Blocks {
		total += len(b.Items)
	}
	return total
}

// HasItem reports whether any profile block contains itemID.
func (p *CustomerProfile) HasItem(itemID string) bool {
	for _, b := range p.Blocks {
		for _, item := range b.Items {
			if item.ID == itemID {
				return true
			}
		}
	}
	return false
}

// FitLink marks a profile item as addressed by a value map item.
type FitLink struct {
	SourceID string `json:"source_id"` // value map item
	TargetID string `json:"target_id"` // profile item
}

// ValueMap describes how an offer addresses a linked customer profile.
type ValueMap struct {
	ID        string
	OwnerID   string
	Title     string
	ProfileID string
	Blocks    map[MapBlockName]block.Block
	Links     []FitLink
	FitScore  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewValueMap creates an empty value map bound to a customer profile.
func NewValueMap(id, ownerID, title, profileID string, now time.Time) (*ValueMap, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeValueMapEmptyTitle, "value map title is required")
	}
	if strings.TrimSpace(profileID) == "" {
		return nil, apperrors.New(apperrors.CodeValueMapBadProfile, "value map requires a customer profile")
	}
	blocks := make(map[MapBlockName]block.Block, len(MapBlockNames))
	for _, name := range MapBlockNames {
		blocks[name] = block.Block{Items: []block.Item{}}
	}
	return &ValueMap{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		ProfileID: profileID,
		Blocks:    blocks,
		Links:     []FitLink{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename changes the value map title.
func (m *ValueMap) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeValueMapEmptyTitle, "value map title is required")
	}
	m.Title = title
	return nil
}

// Block returns a copy of the named value map block.
func (m *ValueMap) Block(name MapBlockName) (*block.Block, error) {
	if _, err := ParseMapBlockName(string(name)); err != nil {
		return nil, err
	}
	b := m.Blocks[name]
	if b.Items == nil {
		b.Items = []block.Item{}
	}
	return &b, nil
}

// SetBlock writes back a mutated value map block.
func (m *ValueMap) SetBlock(name MapBlockName, b block.Block) error {
	if _, err := ParseMapBlockName(string(name)); err != nil {
		return err
	}
	if m.Blocks == nil {
		m.Blocks = make(map[MapBlockName]block.Block, len(MapBlockNames))
	}
	m.Blocks[name] = b
	return nil
}

// HasItem reports whether any value map block contains itemID.
func (m *ValueMap) HasItem(itemID string) bool {
	for _, b := range m.Blocks {
		for _, item := range b.Items {
			if item.ID == itemID {
				return true
			}
		}
	}
	return false
}

// Link records that a value map item addresses a profile item. Both ends
// must exist; duplicate links collapse to one.
func (m *ValueMap) Link(profile *CustomerProfile, sourceID, targetID string) error {
	if !m.HasItem(sourceID) {
		return apperrors.WithMetadata(apperrors.CodeFitLinkUnknownSource,
			"link source is not a value map item", map[string]string{"item_id": sourceID})
	}
	if profile == nil || !profile.HasItem(targetID) {
		return apperrors.WithMetadata(apperrors.CodeFitLinkUnknownItem,
			"link target is not a profile item", map[string]string{"item_id": targetID})
	}
	for _, link := range m.Links {
		if link.SourceID == sourceID && link.TargetID == targetID {
			return nil
		}
	}
	m.Links = append(m.Links, FitLink{SourceID: sourceID, TargetID: targetID})
	return nil
}

// Unlink removes a link if present.
func (m *ValueMap) Unlink(sourceID, targetID string) {
	kept := m.Links[:0]
	for _, link := range m.Links {
		if link.SourceID == sourceID && link.TargetID == targetID {
			continue
		}
		kept = append(kept, link)
	}
	m.Links = kept
}

// PruneLinks drops links whose endpoints no longer exist. Called after item
// removals so stale links never inflate the fit score.
func (m *ValueMap) PruneLinks(profile *CustomerProfile) {
	kept := m.Links[:0]
	for _, link := range m.Links {
		if !m.HasItem(link.SourceID) {
			continue
		}
		if profile == nil || !profile.HasItem(link.TargetID) {
			continue
		}
		kept = append(kept, link)
	}
	m.Links = kept
}
