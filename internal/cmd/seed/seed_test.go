package seed

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "data/studio.db" {
		t.Errorf("DBPath = %q, want data/studio.db", cfg.DBPath)
	}
	if cfg.Force {
		t.Error("Force should default to false")
	}
}

func TestRunSeedsThenSkips(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "studio.db")
	ctx := context.Background()

	if err := Run(ctx, Config{DBPath: dbPath}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(ctx, Config{DBPath: dbPath}); err != nil {
		t.Fatalf("second run should skip, not fail: %v", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	svc := studio.NewService(store, telemetry.NewEmitter(store))

	canvases, err := svc.ListCanvases(ctx)
	if err != nil {
		t.Fatalf("list canvases: %v", err)
	}
	if len(canvases) != 1 {
		t.Fatalf("expected one canvas after repeated runs, got %d", len(canvases))
	}
}
