package studio

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/block"
	"github.com/louisbranch/atelier.studio/internal/storymap"
)

// CreateStoryMap creates an empty story map with the default releases.
func (s *Service) CreateStoryMap(ctx context.Context, title string) (*storymap.StoryMap, error) {
	mapID, err := s.newID()
	if err != nil {
		return nil, err
	}
	m, err := storymap.New(mapID, actorOrDefault(ctx), title, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateStoryMap(ctx, m); err != nil {
		return nil, err
	}
	s.record(ctx, "storymap.created", "story_map", m.ID, fmt.Sprintf("Created story map %q", m.Title))
	return m, nil
}

// GetStoryMap loads a story map by id.
func (s *Service) GetStoryMap(ctx context.Context, mapID string) (*storymap.StoryMap, error) {
	return s.store.GetStoryMap(ctx, mapID)
}

// ListStoryMaps returns every story map.
func (s *Service) ListStoryMaps(ctx context.Context) ([]*storymap.StoryMap, error) {
	return s.store.ListStoryMaps(ctx)
}

// RenameStoryMap changes a story map title.
func (s *Service) RenameStoryMap(ctx context.Context, mapID, title string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.renamed", func(m *storymap.StoryMap) error {
		return m.Rename(title)
	})
}

// DeleteStoryMap removes a story map.
func (s *Service) DeleteStoryMap(ctx context.Context, mapID string) error {
	if err := s.store.DeleteStoryMap(ctx, mapID); err != nil {
		return err
	}
	s.record(ctx, "storymap.deleted", "story_map", mapID, "Deleted story map")
	return nil
}

// AddStoryMapActivity appends a backbone activity.
func (s *Service) AddStoryMapActivity(ctx context.Context, mapID, title string) (*storymap.StoryMap, error) {
	activityID, err := s.newID()
	if err != nil {
		return nil, err
	}
	return s.mutateStoryMap(ctx, mapID, "storymap.activity_added", func(m *storymap.StoryMap) error {
		return m.AddActivity(activityID, title)
	})
}

// RemoveStoryMapActivity deletes an activity and everything under it.
func (s *Service) RemoveStoryMapActivity(ctx context.Context, mapID, activityID string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.activity_removed", func(m *storymap.StoryMap) error {
		return m.RemoveActivity(activityID)
	})
}

// AddStoryMapStep appends a step under an activity.
func (s *Service) AddStoryMapStep(ctx context.Context, mapID, activityID, title string) (*storymap.StoryMap, error) {
	stepID, err := s.newID()
	if err != nil {
		return nil, err
	}
	return s.mutateStoryMap(ctx, mapID, "storymap.step_added", func(m *storymap.StoryMap) error {
		return m.AddStep(activityID, stepID, title)
	})
}

// RemoveStoryMapStep deletes a step and its stories.
func (s *Service) RemoveStoryMapStep(ctx context.Context, mapID, stepID string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.step_removed", func(m *storymap.StoryMap) error {
		return m.RemoveStep(stepID)
	})
}

// ReorderStoryMapSteps rearranges the steps under one activity.
func (s *Service) ReorderStoryMapSteps(ctx context.Context, mapID, activityID string, ids []string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.steps_reordered", func(m *storymap.StoryMap) error {
		return m.ReorderSteps(activityID, ids)
	})
}

// ReorderStories rearranges the story cards under one step.
func (s *Service) ReorderStories(ctx context.Context, mapID, stepID string, ids []string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.stories_reordered", func(m *storymap.StoryMap) error {
		return m.ReorderStories(stepID, ids)
	})
}

// AddStory places a new story card under a step.
func (s *Service) AddStory(ctx context.Context, mapID, stepID, title, priority, release string) (*storymap.StoryMap, error) {
	parsedPriority, err := block.ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	storyID, err := s.newID()
	if err != nil {
		return nil, err
	}
	return s.mutateStoryMap(ctx, mapID, "storymap.story_added", func(m *storymap.StoryMap) error {
		return m.AddStory(stepID, storymap.Story{
			ID:        storyID,
			Title:     title,
			Priority:  parsedPriority,
			Release:   release,
			CreatedAt: s.nowUTC(),
		})
	})
}

// UpdateStory rewrites a story card.
func (s *Service) UpdateStory(ctx context.Context, mapID, storyID, title, priority, release string) (*storymap.StoryMap, error) {
	parsedPriority, err := block.ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	return s.mutateStoryMap(ctx, mapID, "storymap.story_updated", func(m *storymap.StoryMap) error {
		return m.UpdateStory(storyID, title, parsedPriority, release)
	})
}

// RemoveStory deletes a story card.
func (s *Service) RemoveStory(ctx context.Context, mapID, storyID string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.story_removed", func(m *storymap.StoryMap) error {
		return m.RemoveStory(storyID)
	})
}

// MoveStory moves a story card to a different step.
func (s *Service) MoveStory(ctx context.Context, mapID, storyID, targetStepID string) (*storymap.StoryMap, error) {
	return s.mutateStoryMap(ctx, mapID, "storymap.story_moved", func(m *storymap.StoryMap) error {
		return m.MoveStory(storyID, targetStepID)
	})
}

func (s *Service) mutateStoryMap(ctx context.Context, mapID, eventName string, mutate func(*storymap.StoryMap) error) (*storymap.StoryMap, error) {
	m, err := s.store.GetStoryMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	expected := m.UpdatedAt
	if err := mutate(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateStoryMap(ctx, m, expected); err != nil {
		return nil, err
	}
	s.record(ctx, eventName, "story_map", m.ID, fmt.Sprintf("Updated story map %q", m.Title))
	return m, nil
}
