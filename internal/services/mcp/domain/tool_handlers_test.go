package domain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

func newTestService(t *testing.T) *studio.Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return studio.NewService(store, telemetry.NewEmitter(store))
}

func TestCanvasListHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCanvas(ctx, "Print Shop"); err != nil {
		t.Fatalf("create canvas: %v", err)
	}
	if _, err := svc.CreateCanvas(ctx, "Ceramics Line"); err != nil {
		t.Fatalf("create canvas: %v", err)
	}

	_, result, err := CanvasListHandler(svc)(ctx, nil, CanvasListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Canvases) != 2 {
		t.Fatalf("expected 2 canvases, got %d", len(result.Canvases))
	}
	if result.Canvases[0].Title != "Print Shop" {
		t.Errorf("expected title %q, got %q", "Print Shop", result.Canvases[0].Title)
	}
	if result.Canvases[0].ID == "" || result.Canvases[0].UpdatedAt == "" {
		t.Errorf("expected populated id and updated_at, got %+v", result.Canvases[0])
	}
}

func TestCanvasItemHandlers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCanvas(ctx, "Print Shop")
	if err != nil {
		t.Fatalf("create canvas: %v", err)
	}

	_, added, err := CanvasItemAddHandler(svc)(ctx, nil, CanvasItemAddInput{
		CanvasID: c.ID,
		Block:    "key_partners",
		Content:  "paper supplier",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := added.Canvas.Blocks["key_partners"]
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Content != "paper supplier" || items[0].Priority != "high" {
		t.Errorf("unexpected item %+v", items[0])
	}

	_, updated, err := CanvasItemUpdateHandler(svc)(ctx, nil, CanvasItemUpdateInput{
		CanvasID: c.ID,
		Block:    "key_partners",
		ItemID:   items[0].ID,
		Content:  "local paper supplier",
		Priority: "medium",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Canvas.Blocks["key_partners"][0]; got.Content != "local paper supplier" || got.Priority != "medium" {
		t.Errorf("unexpected item after update %+v", got)
	}

	_, removed, err := CanvasItemRemoveHandler(svc)(ctx, nil, CanvasItemRemoveInput{
		CanvasID: c.ID,
		Block:    "key_partners",
		ItemID:   items[0].ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed.Canvas.Blocks["key_partners"]) != 0 {
		t.Errorf("expected empty block after remove")
	}

	if _, _, err := CanvasGetHandler(svc)(ctx, nil, CanvasGetInput{CanvasID: "missing"}); err == nil {
		t.Fatal("expected error for unknown canvas")
	}
	if _, _, err := CanvasItemAddHandler(svc)(ctx, nil, CanvasItemAddInput{
		CanvasID: c.ID,
		Block:    "not_a_block",
		Content:  "x",
	}); err == nil {
		t.Fatal("expected error for unknown block")
	}
}

func TestFitReportHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	profile, err := svc.CreateProfile(ctx, "Gallery Buyers")
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	profile, err = svc.AddProfileItem(ctx, profile.ID, "pains", "shipping damage", "high")
	if err != nil {
		t.Fatalf("add profile item: %v", err)
	}
	profile, err = svc.AddProfileItem(ctx, profile.ID, "gains", "provenance papers", "medium")
	if err != nil {
		t.Fatalf("add profile item: %v", err)
	}

	vm, err := svc.CreateValueMap(ctx, "Framed Prints", profile.ID)
	if err != nil {
		t.Fatalf("create value map: %v", err)
	}
	vm, err = svc.AddValueMapItem(ctx, vm.ID, "pain_relievers", "reinforced packaging", "high")
	if err != nil {
		t.Fatalf("add value map item: %v", err)
	}

	painID := profile.Blocks["pains"].Items[0].ID
	relieverID := vm.Blocks["pain_relievers"].Items[0].ID
	if _, err := svc.LinkFit(ctx, vm.ID, relieverID, painID); err != nil {
		t.Fatalf("link fit: %v", err)
	}

	_, report, err := FitReportHandler(svc)(ctx, nil, FitReportInput{ValueMapID: vm.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Score != 50 || report.Addressed != 1 || report.Total != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Gaps) != 1 || report.Gaps[0].Content != "provenance papers" {
		t.Errorf("unexpected gaps %+v", report.Gaps)
	}

	_, list, err := ValueMapListHandler(svc)(ctx, nil, ValueMapListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.ValueMaps) != 1 || list.ValueMaps[0].ProfileID != profile.ID {
		t.Errorf("unexpected value maps %+v", list.ValueMaps)
	}
}

func TestLogEntryCreateHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, result, err := LogEntryCreateHandler(svc)(ctx, nil, LogEntryCreateInput{
		Title: "Kiln Rebuild Week",
		Body:  "Tore down the old arch.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected entry id")
	}
	if result.Slug != "kiln-rebuild-week" {
		t.Errorf("expected derived slug, got %q", result.Slug)
	}
	if result.Published {
		t.Error("expected draft entry")
	}

	if _, _, err := LogEntryCreateHandler(svc)(ctx, nil, LogEntryCreateInput{}); err == nil {
		t.Fatal("expected error for missing title")
	}
}
