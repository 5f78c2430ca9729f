package journey

import (
	"testing"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func testJourney(t *testing.T, stages ...string) *Journey {
	t.Helper()
	j, err := New("j1", "u1", "Onboarding", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, id := range stages {
		if err := j.AddStage(id, "Stage "+id); err != nil {
			t.Fatalf("add stage %s: %v", id, err)
		}
	}
	return j
}

func TestNewRequiresTitle(t *testing.T) {
	_, err := New("j1", "u1", "", time.Now())
	if apperrors.CodeOf(err) != apperrors.CodeJourneyEmptyTitle {
		t.Fatalf("expected empty title error, got %v", err)
	}
}

func TestAddStageRequiresName(t *testing.T) {
	j := testJourney(t)
	if err := j.AddStage("s1", "  "); apperrors.CodeOf(err) != apperrors.CodeJourneyStageEmptyName {
		t.Fatalf("expected empty name error, got %v", err)
	}
}

func TestAddStageMaterializesLanes(t *testing.T) {
	j := testJourney(t, "s1")
	for _, lane := range BlockNames {
		b, err := j.StageBlock("s1", lane)
		if err != nil {
			t.Fatalf("stage block %s: %v", lane, err)
		}
		if b.Items == nil {
			t.Fatalf("lane %s has nil items", lane)
		}
	}
}

func TestRenameStage(t *testing.T) {
	j := testJourney(t, "s1")
	if err := j.RenameStage("s1", "Discovery"); err != nil {
		t.Fatalf("rename stage: %v", err)
	}
	if j.Stages[0].Name != "Discovery" {
		t.Fatalf("Name = %q", j.Stages[0].Name)
	}
	if err := j.RenameStage("ghost", "x"); apperrors.CodeOf(err) != apperrors.CodeJourneyStageNotFound {
		t.Fatalf("expected stage not found, got %v", err)
	}
}

func TestRemoveStage(t *testing.T) {
	j := testJourney(t, "s1", "s2", "s3")
	if err := j.RemoveStage("s2"); err != nil {
		t.Fatalf("remove stage: %v", err)
	}
	got := j.StageIDs()
	if len(got) != 2 || got[0] != "s1" || got[1] != "s3" {
		t.Fatalf("StageIDs = %v", got)
	}
}

func TestReorderStages(t *testing.T) {
	j := testJourney(t, "s1", "s2", "s3")
	if err := j.ReorderStages([]string{"s3", "s1", "s2"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got := j.StageIDs()
	if got[0] != "s3" || got[1] != "s1" || got[2] != "s2" {
		t.Fatalf("StageIDs = %v", got)
	}

	err := j.ReorderStages([]string{"s1", "s2"})
	if apperrors.CodeOf(err) != apperrors.CodeJourneyBadReorder {
		t.Fatalf("expected reorder error, got %v", err)
	}
	err = j.ReorderStages([]string{"s1", "s2", "ghost"})
	if apperrors.CodeOf(err) != apperrors.CodeJourneyBadReorder {
		t.Fatalf("expected reorder error, got %v", err)
	}
}

func TestStageBlockMutation(t *testing.T) {
	j := testJourney(t, "s1")
	b, err := j.StageBlock("s1", PainPoints)
	if err != nil {
		t.Fatalf("stage block: %v", err)
	}
	if err := b.Add(block.Item{ID: "i1", Content: "Confusing signup form"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := j.SetStageBlock("s1", PainPoints, *b); err != nil {
		t.Fatalf("set stage block: %v", err)
	}
	stored, err := j.StageBlock("s1", PainPoints)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Content != "Confusing signup form" {
		t.Fatalf("unexpected block %+v", stored)
	}
}

func TestStageBlockUnknownLane(t *testing.T) {
	j := testJourney(t, "s1")
	_, err := j.StageBlock("s1", "swimlane")
	if apperrors.CodeOf(err) != apperrors.CodeBlockUnknownName {
		t.Fatalf("expected unknown block error, got %v", err)
	}
}
