package storymap

import (
	"testing"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func testMap(t *testing.T) *StoryMap {
	t.Helper()
	m, err := New("m1", "u1", "Checkout flow", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.AddActivity("a1", "Browse"); err != nil {
		t.Fatalf("add activity: %v", err)
	}
	if err := m.AddStep("a1", "st1", "Search"); err != nil {
		t.Fatalf("add step: %v", err)
	}
	if err := m.AddStep("a1", "st2", "Filter"); err != nil {
		t.Fatalf("add step: %v", err)
	}
	return m
}

func TestNewRequiresTitle(t *testing.T) {
	_, err := New("m1", "u1", " ", time.Now())
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapEmptyTitle {
		t.Fatalf("expected empty title error, got %v", err)
	}
}

func TestAddStoryValidation(t *testing.T) {
	m := testMap(t)

	err := m.AddStory("st1", Story{ID: "s1", Title: " "})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapCardEmpty {
		t.Fatalf("expected empty card error, got %v", err)
	}

	err = m.AddStory("st1", Story{ID: "s1", Title: "Search by name", Priority: "urgent"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapBadPriority {
		t.Fatalf("expected priority error, got %v", err)
	}

	err = m.AddStory("st1", Story{ID: "s1", Title: "Search by name", Release: "someday"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapBadRelease {
		t.Fatalf("expected release error, got %v", err)
	}

	err = m.AddStory("ghost", Story{ID: "s1", Title: "Search by name"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapCardNotFound {
		t.Fatalf("expected card not found, got %v", err)
	}

	if err := m.AddStory("st1", Story{ID: "s1", Title: "Search by name", Release: "now"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if got := m.Activities[0].Steps[0].Stories[0].Priority; got != block.PriorityMedium {
		t.Fatalf("Priority = %q, want medium default", got)
	}
}

func TestUpdateStory(t *testing.T) {
	m := testMap(t)
	if err := m.AddStory("st1", Story{ID: "s1", Title: "Old"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if err := m.UpdateStory("s1", "New", block.PriorityHigh, "next"); err != nil {
		t.Fatalf("update story: %v", err)
	}
	story := m.Activities[0].Steps[0].Stories[0]
	if story.Title != "New" || story.Priority != block.PriorityHigh || story.Release != "next" {
		t.Fatalf("unexpected story %+v", story)
	}
}

func TestMoveStory(t *testing.T) {
	m := testMap(t)
	if err := m.AddStory("st1", Story{ID: "s1", Title: "Card"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if err := m.MoveStory("s1", "st2"); err != nil {
		t.Fatalf("move story: %v", err)
	}
	if len(m.Activities[0].Steps[0].Stories) != 0 {
		t.Fatal("expected story removed from source step")
	}
	if len(m.Activities[0].Steps[1].Stories) != 1 {
		t.Fatal("expected story in target step")
	}
	if err := m.MoveStory("s1", "ghost"); apperrors.CodeOf(err) != apperrors.CodeStoryMapCardNotFound {
		t.Fatalf("expected card not found, got %v", err)
	}
}

func TestRemoveCards(t *testing.T) {
	m := testMap(t)
	if err := m.AddStory("st2", Story{ID: "s1", Title: "Card"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if err := m.RemoveStory("s1"); err != nil {
		t.Fatalf("remove story: %v", err)
	}
	if err := m.RemoveStep("st2"); err != nil {
		t.Fatalf("remove step: %v", err)
	}
	if err := m.RemoveActivity("a1"); err != nil {
		t.Fatalf("remove activity: %v", err)
	}
	if len(m.Activities) != 0 {
		t.Fatalf("expected no activities, got %d", len(m.Activities))
	}
}

func TestReorderSteps(t *testing.T) {
	m := testMap(t)
	if err := m.ReorderSteps("a1", []string{"st2", "st1"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	steps := m.Activities[0].Steps
	if steps[0].ID != "st2" || steps[1].ID != "st1" {
		t.Fatalf("unexpected order %v", []string{steps[0].ID, steps[1].ID})
	}
	err := m.ReorderSteps("a1", []string{"st1"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapBadReorder {
		t.Fatalf("expected reorder error, got %v", err)
	}
}

func TestReorderStories(t *testing.T) {
	m := testMap(t)
	for _, id := range []string{"s1", "s2", "s3"} {
		if err := m.AddStory("st1", Story{ID: id, Title: "Story " + id, Priority: block.PriorityMedium}); err != nil {
			t.Fatalf("add story: %v", err)
		}
	}

	if err := m.ReorderStories("st1", []string{"s3", "s1", "s2"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	stories := m.Activities[0].Steps[0].Stories
	got := []string{stories[0].ID, stories[1].ID, stories[2].ID}
	if got[0] != "s3" || got[1] != "s1" || got[2] != "s2" {
		t.Fatalf("unexpected order %v", got)
	}

	err := m.ReorderStories("st1", []string{"s1", "s2"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapBadReorder {
		t.Fatalf("expected reorder error for dropped id, got %v", err)
	}
	err = m.ReorderStories("st1", []string{"s1", "s2", "ghost"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapBadReorder {
		t.Fatalf("expected reorder error for unknown id, got %v", err)
	}
	err = m.ReorderStories("ghost", []string{"s1"})
	if apperrors.CodeOf(err) != apperrors.CodeStoryMapCardNotFound {
		t.Fatalf("expected card not found, got %v", err)
	}
}

func TestStoriesForRelease(t *testing.T) {
	m := testMap(t)
	if err := m.AddStory("st1", Story{ID: "s1", Title: "A", Release: "now"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if err := m.AddStory("st2", Story{ID: "s2", Title: "B", Release: "later"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	now := m.StoriesForRelease("now")
	if len(now) != 1 || now[0].ID != "s1" {
		t.Fatalf("unexpected stories %+v", now)
	}
}
