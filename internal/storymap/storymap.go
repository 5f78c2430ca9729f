// Package storymap models user story maps: a backbone of activities broken
// into steps, with prioritized stories hanging off each step, optionally
// assigned to release slices.
package storymap

import (
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// Story is one card under a step.
type Story struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Priority  block.Priority `json:"priority"`
	Release   string         `json:"release,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Step is one column under an activity.
type Step struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Stories []Story `json:"stories"`
}

// Activity is one backbone card.
type Activity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// StoryMap is a user story map.
type StoryMap struct {
	ID         string
	OwnerID    string
	Title      string
	Releases   []string
	Activities []Activity
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New creates an empty story map with a default release slice.
func New(id, ownerID, title string, now time.Time) (*StoryMap, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeStoryMapEmptyTitle, "story map title is required")
	}
	return &StoryMap{
		ID:         id,
		OwnerID:    ownerID,
		Title:      title,
		Releases:   []string{"now", "next", "later"},
		Activities: []Activity{},
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

// Rename sets a validated title.
func (m *StoryMap) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeStoryMapEmptyTitle, "story map title is required")
	}
	m.Title = title
	return nil
}

// AddActivity appends a backbone card.
func (m *StoryMap) AddActivity(activityID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return cardEmpty()
	}
	m.Activities = append(m.Activities, Activity{ID: activityID, Title: title, Steps: []Step{}})
	return nil
}

// AddStep appends a step under an activity.
func (m *StoryMap) AddStep(activityID, stepID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return cardEmpty()
	}
	activity := m.activity(activityID)
	if activity == nil {
		return cardNotFound(activityID)
	}
	activity.Steps = append(activity.Steps, Step{ID: stepID, Title: title, Stories: []Story{}})
	return nil
}

// AddStory appends a story under a step.
func (m *StoryMap) AddStory(stepID string, story Story) error {
	story.Title = strings.TrimSpace(story.Title)
	if story.Title == "" {
		return cardEmpty()
	}
	priority, err := block.ParsePriority(string(story.Priority))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoryMapBadPriority, "invalid story priority", err)
	}
	story.Priority = priority
	if story.Release != "" && !m.knownRelease(story.Release) {
		return apperrors.WithMetadata(apperrors.CodeStoryMapBadRelease,
			"unknown release slice", map[string]string{"release": story.Release})
	}
	step := m.step(stepID)
	if step == nil {
		return cardNotFound(stepID)
	}
	step.Stories = append(step.Stories, story)
	return nil
}

// UpdateStory rewrites a story's title, priority, and release.
func (m *StoryMap) UpdateStory(storyID, title string, priority block.Priority, release string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return cardEmpty()
	}
	parsed, err := block.ParsePriority(string(priority))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoryMapBadPriority, "invalid story priority", err)
	}
	if release != "" && !m.knownRelease(release) {
		return apperrors.WithMetadata(apperrors.CodeStoryMapBadRelease,
			"unknown release slice", map[string]string{"release": release})
	}
	story := m.story(storyID)
	if story == nil {
		return cardNotFound(storyID)
	}
	story.Title = title
	story.Priority = parsed
	story.Release = release
	return nil
}

// RemoveStory deletes a story card.
func (m *StoryMap) RemoveStory(storyID string) error {
	for a := range m.Activities {
		for s := range m.Activities[a].Steps {
			step := &m.Activities[a].Steps[s]
			for i, story := range step.Stories {
				if story.ID == storyID {
					step.Stories = append(step.Stories[:i], step.Stories[i+1:]...)
					return nil
				}
			}
		}
	}
	return cardNotFound(storyID)
}

// RemoveStep deletes a step and its stories.
func (m *StoryMap) RemoveStep(stepID string) error {
	for a := range m.Activities {
		activity := &m.Activities[a]
		for i, step := range activity.Steps {
			if step.ID == stepID {
				activity.Steps = append(activity.Steps[:i], activity.Steps[i+1:]...)
				return nil
			}
		}
	}
	return cardNotFound(stepID)
}

// RemoveActivity deletes a backbone card and everything under it.
func (m *StoryMap) RemoveActivity(activityID string) error {
	for i, activity := range m.Activities {
		if activity.ID == activityID {
			m.Activities = append(m.Activities[:i], m.Activities[i+1:]...)
			return nil
		}
	}
	return cardNotFound(activityID)
}

// MoveStory relocates a story card to another step.
func (m *StoryMap) MoveStory(storyID, targetStepID string) error {
	target := m.step(targetStepID)
	if target == nil {
		return cardNotFound(targetStepID)
	}
	for a := range m.Activities {
		for s := range m.Activities[a].Steps {
			step := &m.Activities[a].Steps[s]
			for i, story := range step.Stories {
				if story.ID == storyID {
					step.Stories = append(step.Stories[:i], step.Stories[i+1:]...)
					// step slice headers may have moved; resolve target again.
					target = m.step(targetStepID)
					target.Stories = append(target.Stories, story)
					return nil
				}
			}
		}
	}
	return cardNotFound(storyID)
}

// ReorderSteps rearranges the steps of an activity; ids must be a
// permutation of the current step ids.
func (m *StoryMap) ReorderSteps(activityID string, ids []string) error {
	activity := m.activity(activityID)
	if activity == nil {
		return cardNotFound(activityID)
	}
	if len(ids) != len(activity.Steps) {
		return reorderMismatch()
	}
	byID := make(map[string]Step, len(activity.Steps))
	for _, step := range activity.Steps {
		byID[step.ID] = step
	}
	reordered := make([]Step, 0, len(ids))
	for _, id := range ids {
		step, ok := byID[id]
		if !ok {
			return reorderMismatch()
		}
		delete(byID, id)
		reordered = append(reordered, step)
	}
	activity.Steps = reordered
	return nil
}

// ReorderStories rearranges the stories of a step; ids must be a
// permutation of the step's current story ids.
func (m *StoryMap) ReorderStories(stepID string, ids []string) error {
	step := m.step(stepID)
	if step == nil {
		return cardNotFound(stepID)
	}
	if len(ids) != len(step.Stories) {
		return reorderMismatch()
	}
	byID := make(map[string]Story, len(step.Stories))
	for _, story := range step.Stories {
		byID[story.ID] = story
	}
	reordered := make([]Story, 0, len(ids))
	for _, id := range ids {
		story, ok := byID[id]
		if !ok {
			return reorderMismatch()
		}
		delete(byID, id)
		reordered = append(reordered, story)
	}
	step.Stories = reordered
	return nil
}

// StoriesForRelease returns all stories assigned to a release slice.
func (m *StoryMap) StoriesForRelease(release string) []Story {
	var stories []Story
	for _, activity := range m.Activities {
		for _, step := range activity.Steps {
			for _, story := range step.Stories {
				if story.Release == release {
					stories = append(stories, story)
				}
			}
		}
	}
	return stories
}

func (m *StoryMap) knownRelease(release string) bool {
	for _, known := range m.Releases {
		if known == release {
			return true
		}
	}
	return false
}

func (m *StoryMap) activity(activityID string) *Activity {
	for i := range m.Activities {
		if m.Activities[i].ID == activityID {
			return &m.Activities[i]
		}
	}
	return nil
}

func (m *StoryMap) step(stepID string) *Step {
	for a := range m.Activities {
		for s := range m.Activities[a].Steps {
			if m.Activities[a].Steps[s].ID == stepID {
				return &m.Activities[a].Steps[s]
			}
		}
	}
	return nil
}

func (m *StoryMap) story(storyID string) *Story {
	for a := range m.Activities {
		for s := range m.Activities[a].Steps {
			step := &m.Activities[a].Steps[s]
			for i := range step.Stories {
				if step.Stories[i].ID == storyID {
					return &step.Stories[i]
				}
			}
		}
	}
	return nil
}

func cardEmpty() error {
	return apperrors.New(apperrors.CodeStoryMapCardEmpty, "card title is required")
}

func cardNotFound(id string) error {
	return apperrors.WithMetadata(apperrors.CodeStoryMapCardNotFound,
		"card not found", map[string]string{"card_id": id})
}

func reorderMismatch() error {
	return apperrors.New(apperrors.CodeStoryMapBadReorder,
		"reorder ids must be a permutation of current step ids")
}
