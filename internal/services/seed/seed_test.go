package seed

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

func TestSeedPopulatesEveryArtifactKind(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := Seed(ctx, svc); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	canvases, err := svc.ListCanvases(ctx)
	if err != nil || len(canvases) != 1 {
		t.Fatalf("expected one canvas, got %d (err %v)", len(canvases), err)
	}
	profiles, err := svc.ListProfiles(ctx)
	if err != nil || len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d (err %v)", len(profiles), err)
	}
	maps, err := svc.ListValueMaps(ctx)
	if err != nil || len(maps) != 1 {
		t.Fatalf("expected one value map, got %d (err %v)", len(maps), err)
	}
	journeys, err := svc.ListJourneys(ctx)
	if err != nil || len(journeys) != 1 {
		t.Fatalf("expected one journey, got %d (err %v)", len(journeys), err)
	}
	if len(journeys[0].Stages) != 4 {
		t.Errorf("expected four journey stages, got %d", len(journeys[0].Stages))
	}
	storyMaps, err := svc.ListStoryMaps(ctx)
	if err != nil || len(storyMaps) != 1 {
		t.Fatalf("expected one story map, got %d (err %v)", len(storyMaps), err)
	}

	published, err := svc.ListProjects(ctx, true)
	if err != nil {
		t.Fatalf("list published projects: %v", err)
	}
	if len(published) != 1 {
		t.Errorf("expected one published project, got %d", len(published))
	}
	all, err := svc.ListProjects(ctx, false)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected two projects, got %d", len(all))
	}

	report, err := svc.FitReport(ctx, maps[0].ID)
	if err != nil {
		t.Fatalf("fit report: %v", err)
	}
	if report.Addressed == 0 {
		t.Error("expected the seeded value map to address at least one profile item")
	}
}

func TestSeededDetectsExistingData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seeded, err := Seeded(ctx, svc)
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	if seeded {
		t.Fatal("empty database reported as seeded")
	}

	if err := Seed(ctx, svc); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	seeded, err = Seeded(ctx, svc)
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	if !seeded {
		t.Fatal("seeded database reported as empty")
	}
}
