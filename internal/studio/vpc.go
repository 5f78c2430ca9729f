package studio

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/block"
	"github.com/louisbranch/atelier.studio/internal/vpc"
)

// CreateProfile creates an empty customer profile.
func (s *Service) CreateProfile(ctx context.Context, title string) (*vpc.CustomerProfile, error) {
	profileID, err := s.newID()
	if err != nil {
		return nil, err
	}
	p, err := vpc.NewProfile(profileID, actorOrDefault(ctx), title, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, "profile.created", "profile", p.ID, fmt.Sprintf("Created customer profile %q", p.Title))
	return p, nil
}

// GetProfile loads a customer profile by id.
func (s *Service) GetProfile(ctx context.Context, profileID string) (*vpc.CustomerProfile, error) {
	return s.store.GetProfile(ctx, profileID)
}

// ListProfiles returns every customer profile.
func (s *Service) ListProfiles(ctx context.Context) ([]*vpc.CustomerProfile, error) {
	return s.store.ListProfiles(ctx)
}

// RenameProfile changes a profile title.
func (s *Service) RenameProfile(ctx context.Context, profileID, title string) (*vpc.CustomerProfile, error) {
	return s.mutateProfile(ctx, profileID, "profile.renamed", func(p *vpc.CustomerProfile) error {
		return p.Rename(title)
	})
}

// DeleteProfile removes a profile and its value maps.
func (s *Service) DeleteProfile(ctx context.Context, profileID string) error {
	if err := s.store.DeleteProfile(ctx, profileID); err != nil {
		return err
	}
	s.record(ctx, "profile.deleted", "profile", profileID, "Deleted customer profile")
	return nil
}

// AddProfileItem appends a sanitized item to one profile block.
func (s *Service) AddProfileItem(ctx context.Context, profileID, blockName, content, priority string) (*vpc.CustomerProfile, error) {
	name, err := vpc.ParseProfileBlockName(blockName)
	if err != nil {
		return nil, err
	}
	item, err := s.newItem(content, priority)
	if err != nil {
		return nil, err
	}
	return s.mutateProfile(ctx, profileID, "profile.item_added", func(p *vpc.CustomerProfile) error {
		b, err := p.Block(name)
		if err != nil {
			return err
		}
		if err := b.Add(item); err != nil {
			return err
		}
		return p.SetBlock(name, *b)
	})
}

// UpdateProfileItem rewrites one profile item.
func (s *Service) UpdateProfileItem(ctx context.Context, profileID, blockName, itemID, content, priority string) (*vpc.CustomerProfile, error) {
	name, err := vpc.ParseProfileBlockName(blockName)
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
	return s.mutateProfile(ctx, profileID, "profile.item_updated", func(p *vpc.CustomerProfile) error {
		b, err := p.Block(name)
		if err != nil {
			return err
		}
		if err := b.Update(itemID, cleaned, parsedPriority); err != nil {
			return err
		}
		return p.SetBlock(name, *b)
	})
}

// RemoveProfileItem deletes one profile item. Fit links pointing at the item
// are pruned from every dependent value map and their scores recomputed.
func (s *Service) RemoveProfileItem(ctx context.Context, profileID, blockName, itemID string) (*vpc.CustomerProfile, error) {
	name, err := vpc.ParseProfileBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateProfile(ctx, profileID, "profile.item_removed", func(p *vpc.CustomerProfile) error {
		b, err := p.Block(name)
		if err != nil {
			return err
		}
		if err := b.Remove(itemID); err != nil {
			return err
		}
		return p.SetBlock(name, *b)
	})
}

// ReorderProfileBlock rearranges one profile block's items.
func (s *Service) ReorderProfileBlock(ctx context.Context, profileID, blockName string, ids []string) (*vpc.CustomerProfile, error) {
	name, err := vpc.ParseProfileBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateProfile(ctx, profileID, "profile.block_reordered", func(p *vpc.CustomerProfile) error {
		b, err := p.Block(name)
		if err != nil {
			return err
		}
		if err := b.Reorder(ids); err != nil {
			return err
		}
		return p.SetBlock(name, *b)
	})
}

func (s *Service) mutateProfile(ctx context.Context, profileID, eventName string, mutate func(*vpc.CustomerProfile) error) (*vpc.CustomerProfile, error) {
	p, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	expected := p.UpdatedAt
	if err := mutate(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateProfile(ctx, p, expected); err != nil {
		return nil, err
	}
	if err := s.refreshProfileMaps(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, eventName, "profile", p.ID, fmt.Sprintf("Updated customer profile %q", p.Title))
	return p, nil
}

// refreshProfileMaps re-scores every value map bound to a profile after the
// profile changed. Links to removed items are pruned first.
func (s *Service) refreshProfileMaps(ctx context.Context, p *vpc.CustomerProfile) error {
	maps, err := s.store.ListValueMapsForProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, m := range maps {
		expected := m.UpdatedAt
		linksBefore := len(m.Links)
		m.PruneLinks(p)
		report := vpc.ComputeFit(p, m)
		if report.Score == m.FitScore && len(m.Links) == linksBefore {
			continue
		}
		m.FitScore = report.Score
		m.UpdatedAt = s.nowUTC()
		if err := s.store.UpdateValueMap(ctx, m, expected); err != nil {
			return err
		}
	}
	return nil
}

// CreateValueMap creates an empty value map bound to a customer profile.
func (s *Service) CreateValueMap(ctx context.Context, title, profileID string) (*vpc.ValueMap, error) {
	// The profile must exist before a map can bind to it.
	if _, err := s.store.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	mapID, err := s.newID()
	if err != nil {
		return nil, err
	}
	m, err := vpc.NewValueMap(mapID, actorOrDefault(ctx), title, profileID, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateValueMap(ctx, m); err != nil {
		return nil, err
	}
	s.record(ctx, "valuemap.created", "value_map", m.ID, fmt.Sprintf("Created value map %q", m.Title))
	return m, nil
}

// GetValueMap loads a value map by id.
func (s *Service) GetValueMap(ctx context.Context, mapID string) (*vpc.ValueMap, error) {
	return s.store.GetValueMap(ctx, mapID)
}

// ListValueMaps returns every value map.
func (s *Service) ListValueMaps(ctx context.Context) ([]*vpc.ValueMap, error) {
	return s.store.ListValueMaps(ctx)
}

// RenameValueMap changes a value map title.
func (s *Service) RenameValueMap(ctx context.Context, mapID, title string) (*vpc.ValueMap, error) {
	return s.mutateValueMap(ctx, mapID, "valuemap.renamed", func(m *vpc.ValueMap, _ *vpc.CustomerProfile) error {
		return m.Rename(title)
	})
}

// DeleteValueMap removes a value map.
func (s *Service) DeleteValueMap(ctx context.Context, mapID string) error {
	if err := s.store.DeleteValueMap(ctx, mapID); err != nil {
		return err
	}
	s.record(ctx, "valuemap.deleted", "value_map", mapID, "Deleted value map")
	return nil
}

// AddValueMapItem appends a sanitized item to one value map block.
func (s *Service) AddValueMapItem(ctx context.Context, mapID, blockName, content, priority string) (*vpc.ValueMap, error) {
	name, err := vpc.ParseMapBlockName(blockName)
	if err != nil {
		return nil, err
	}
	item, err := s.newItem(content, priority)
	if err != nil {
		return nil, err
	}
	return s.mutateValueMap(ctx, mapID, "valuemap.item_added", func(m *vpc.ValueMap, _ *vpc.CustomerProfile) error {
		b, err := m.Block(name)
		if err != nil {
			return err
		}
		if err := b.Add(item); err != nil {
			return err
		}
		return m.SetBlock(name, *b)
	})
}

// UpdateValueMapItem rewrites one value map item.
func (s *Service) UpdateValueMapItem(ctx context.Context, mapID, blockName, itemID, content, priority string) (*vpc.ValueMap, error) {
	name, err := vpc.ParseMapBlockName(blockName)
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
	return s.mutateValueMap(ctx, mapID, "valuemap.item_updated", func(m *vpc.ValueMap, _ *vpc.CustomerProfile) error {
		b, err := m.Block(name)
		if err != nil {
			return err
		}
		if err := b.Update(itemID, cleaned, parsedPriority); err != nil {
			return err
		}
		return m.SetBlock(name, *b)
	})
}

// RemoveValueMapItem deletes one value map item and prunes links that used
// it as a source.
func (s *Service) RemoveValueMapItem(ctx context.Context, mapID, blockName, itemID string) (*vpc.ValueMap, error) {
	name, err := vpc.ParseMapBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateValueMap(ctx, mapID, "valuemap.item_removed", func(m *vpc.ValueMap, profile *vpc.CustomerProfile) error {
		b, err := m.Block(name)
		if err != nil {
			return err
		}
		if err := b.Remove(itemID); err != nil {
			return err
		}
		if err := m.SetBlock(name, *b); err != nil {
			return err
		}
		m.PruneLinks(profile)
		return nil
	})
}

// ReorderValueMapBlock rearranges one value map block's items.
func (s *Service) ReorderValueMapBlock(ctx context.Context, mapID, blockName string, ids []string) (*vpc.ValueMap, error) {
	name, err := vpc.ParseMapBlockName(blockName)
	if err != nil {
		return nil, err
	}
	return s.mutateValueMap(ctx, mapID, "valuemap.block_reordered", func(m *vpc.ValueMap, _ *vpc.CustomerProfile) error {
		b, err := m.Block(name)
		if err != nil {
			return err
		}
		if err := b.Reorder(ids); err != nil {
			return err
		}
		return m.SetBlock(name, *b)
	})
}

// LinkFit records that a value map item addresses a profile item.
func (s *Service) LinkFit(ctx context.Context, mapID, sourceID, targetID string) (*vpc.ValueMap, error) {
	return s.mutateValueMap(ctx, mapID, "valuemap.linked", func(m *vpc.ValueMap, profile *vpc.CustomerProfile) error {
		return m.Link(profile, sourceID, targetID)
	})
}

// UnlinkFit removes a fit link.
func (s *Service) UnlinkFit(ctx context.Context, mapID, sourceID, targetID string) (*vpc.ValueMap, error) {
	return s.mutateValueMap(ctx, mapID, "valuemap.unlinked", func(m *vpc.ValueMap, _ *vpc.CustomerProfile) error {
		m.Unlink(sourceID, targetID)
		return nil
	})
}

// FitReport scores a value map against its profile without writing anything.
func (s *Service) FitReport(ctx context.Context, mapID string) (vpc.FitReport, error) {
	m, err := s.store.GetValueMap(ctx, mapID)
	if err != nil {
		return vpc.FitReport{}, err
	}
	profile, err := s.store.GetProfile(ctx, m.ProfileID)
	if err != nil {
		return vpc.FitReport{}, err
	}
	return vpc.ComputeFit(profile, m), nil
}

// mutateValueMap loads the map and its profile, applies the change, then
// recomputes the fit score before the guarded write.
func (s *Service) mutateValueMap(ctx context.Context, mapID, eventName string, mutate func(*vpc.ValueMap, *vpc.CustomerProfile) error) (*vpc.ValueMap, error) {
	m, err := s.store.GetValueMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, m.ProfileID)
	if err != nil {
		return nil, err
	}
	expected := m.UpdatedAt
	if err := mutate(m, profile); err != nil {
		return nil, err
	}
	m.FitScore = vpc.ComputeFit(profile, m).Score
	m.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateValueMap(ctx, m, expected); err != nil {
		return nil, err
	}
	s.record(ctx, eventName, "value_map", m.ID, fmt.Sprintf("Updated value map %q", m.Title))
	return m, nil
}
