package studio

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/block"
	"github.com/louisbranch/atelier.studio/internal/journey"
)

// CreateJourney creates an empty customer journey.
func (s *Service) CreateJourney(ctx context.Context, title string) (*journey.Journey, error) {
	journeyID, err := s.newID()
	if err != nil {
		return nil, err
	}
	j, err := journey.New(journeyID, actorOrDefault(ctx), title, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateJourney(ctx, j); err != nil {
		return nil, err
	}
	s.record(ctx, "journey.created", "journey", j.ID, fmt.Sprintf("Created journey %q", j.Title))
	return j, nil
}

// GetJourney loads a journey by id.
func (s *Service) GetJourney(ctx context.Context, journeyID string) (*journey.Journey, error) {
	return s.store.GetJourney(ctx, journeyID)
}

// ListJourneys returns every journey.
func (s *Service) ListJourneys(ctx context.Context) ([]*journey.Journey, error) {
	return s.store.ListJourneys(ctx)
}

// RenameJourney changes a journey title.
func (s *Service) RenameJourney(ctx context.Context, journeyID, title string) (*journey.Journey, error) {
	return s.mutateJourney(ctx, journeyID, "journey.renamed", func(j *journey.Journey) error {
		return j.Rename(title)
	})
}

// DeleteJourney removes a journey.
func (s *Service) DeleteJourney(ctx context.Context, journeyID string) error {
	if err := s.store.DeleteJourney(ctx, journeyID); err != nil {
		return err
	}
	s.record(ctx, "journey.deleted", "journey", journeyID, "Deleted journey")
	return nil
}

// AddJourneyStage appends a stage to the journey timeline.
func (s *Service) AddJourneyStage(ctx context.Context, journeyID, name string) (*journey.Journey, error) {
	stageID, err := s.newID()
	if err != nil {
		return nil, err
	}
	return s.mutateJourney(ctx, journeyID, "journey.stage_added", func(j *journey.Journey) error {
		return j.AddStage(stageID, name)
	})
}

// RenameJourneyStage changes a stage name.
func (s *Service) RenameJourneyStage(ctx context.Context, journeyID, stageID, name string) (*journey.Journey, error) {
	return s.mutateJourney(ctx, journeyID, "journey.stage_renamed", func(j *journey.Journey) error {
		return j.RenameStage(stageID, name)
	})
}

// RemoveJourneyStage deletes a stage and everything in its lanes.
func (s *Service) RemoveJourneyStage(ctx context.Context, journeyID, stageID string) (*journey.Journey, error) {
	return s.mutateJourney(ctx, journeyID, "journey.stage_removed", func(j *journey.Journey) error {
		return j.RemoveStage(stageID)
	})
}

// ReorderJourneyStages rearranges the journey timeline.
func (s *Service) ReorderJourneyStages(ctx context.Context, journeyID string, ids []string) (*journey.Journey, error) {
	return s.mutateJourney(ctx, journeyID, "journey.stages_reordered", func(j *journey.Journey) error {
		return j.ReorderStages(ids)
	})
}

// AddJourneyItem appends a sanitized item to one stage lane.
func (s *Service) AddJourneyItem(ctx context.Context, journeyID, stageID, laneName, content, priority string) (*journey.Journey, error) {
	name, err := journey.ParseBlockName(laneName)
	if err != nil {
		return nil, err
	}
	item, err := s.newItem(content, priority)
	if err != nil {
		return nil, err
	}
	return s.mutateJourney(ctx, journeyID, "journey.item_added", func(j *journey.Journey) error {
		b, err := j.StageBlock(stageID, name)
		if err != nil {
			return err
		}
		if err := b.Add(item); err != nil {
			return err
		}
		return j.SetStageBlock(stageID, name, *b)
	})
}

// UpdateJourneyItem rewrites one lane item.
func (s *Service) UpdateJourneyItem(ctx context.Context, journeyID, stageID, laneName, itemID, content, priority string) (*journey.Journey, error) {
	name, err := journey.ParseBlockName(laneName)
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
	return s.mutateJourney(ctx, journeyID, "journey.item_updated", func(j *journey.Journey) error {
		b, err := j.StageBlock(stageID, name)
		if err != nil {
			return err
		}
		if err := b.Update(itemID, cleaned, parsedPriority); err != nil {
			return err
		}
		return j.SetStageBlock(stageID, name, *b)
	})
}

// RemoveJourneyItem deletes one lane item.
func (s *Service) RemoveJourneyItem(ctx context.Context, journeyID, stageID, laneName, itemID string) (*journey.Journey, error) {
	name, err := journey.ParseBlockName(laneName)
	if err != nil {
		return nil, err
	}
	return s.mutateJourney(ctx, journeyID, "journey.item_removed", func(j *journey.Journey) error {
		b, err := j.StageBlock(stageID, name)
		if err != nil {
			return err
		}
		if err := b.Remove(itemID); err != nil {
			return err
		}
		return j.SetStageBlock(stageID, name, *b)
	})
}

// ReorderJourneyLane rearranges one stage lane's items.
func (s *Service) ReorderJourneyLane(ctx context.Context, journeyID, stageID, laneName string, ids []string) (*journey.Journey, error) {
	name, err := journey.ParseBlockName(laneName)
	if err != nil {
		return nil, err
	}
	return s.mutateJourney(ctx, journeyID, "journey.lane_reordered", func(j *journey.Journey) error {
		b, err := j.StageBlock(stageID, name)
		if err != nil {
			return err
		}
		if err := b.Reorder(ids); err != nil {
			return err
		}
		return j.SetStageBlock(stageID, name, *b)
	})
}

func (s *Service) mutateJourney(ctx context.Context, journeyID, eventName string, mutate func(*journey.Journey) error) (*journey.Journey, error) {
	j, err := s.store.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	expected := j.UpdatedAt
	if err := mutate(j); err != nil {
		return nil, err
	}
	j.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateJourney(ctx, j, expected); err != nil {
		return nil, err
	}
	s.record(ctx, eventName, "journey", j.ID, fmt.Sprintf("Updated journey %q", j.Title))
	return j, nil
}
