package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/atelier.studio/internal/canvas"
	"github.com/louisbranch/atelier.studio/internal/content"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/storage"
	"github.com/louisbranch/atelier.studio/internal/vpc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCanvasRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	c, err := canvas.New("cnv1", "owner1", "Studio revenue model", now)
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	if err := store.CreateCanvas(ctx, c); err != nil {
		t.Fatalf("create canvas: %v", err)
	}

	loaded, err := store.GetCanvas(ctx, "cnv1")
	if err != nil {
		t.Fatalf("get canvas: %v", err)
	}
	if loaded.Title != "Studio revenue model" {
		t.Fatalf("unexpected title %q", loaded.Title)
	}
	if len(loaded.Blocks) != len(canvas.BlockNames) {
		t.Fatalf("expected %d blocks, got %d", len(canvas.BlockNames), len(loaded.Blocks))
	}
	if !loaded.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at = %v, want %v", loaded.UpdatedAt, now)
	}
}

func TestGetCanvasNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetCanvas(context.Background(), "missing")
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCanvasOptimisticLock(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	c, err := canvas.New("cnv1", "owner1", "First draft", now)
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	if err := store.CreateCanvas(ctx, c); err != nil {
		t.Fatalf("create canvas: %v", err)
	}

	c.Title = "Second draft"
	c.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateCanvas(ctx, c, now); err != nil {
		t.Fatalf("update canvas: %v", err)
	}

	// A writer holding the original timestamp must now lose.
	c.Title = "Stale draft"
	c.UpdatedAt = now.Add(2 * time.Minute)
	err = store.UpdateCanvas(ctx, c, now)
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	loaded, err := store.GetCanvas(ctx, "cnv1")
	if err != nil {
		t.Fatalf("get canvas: %v", err)
	}
	if loaded.Title != "Second draft" {
		t.Fatalf("stale write went through, title %q", loaded.Title)
	}
}

func TestUpdateCanvasMissingRecord(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()
	c, err := canvas.New("ghost", "owner1", "Ghost", now)
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	err = store.UpdateCanvas(context.Background(), c, now)
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteCanvas(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	c, err := canvas.New("cnv1", "owner1", "Doomed", time.Now().UTC())
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	if err := store.CreateCanvas(ctx, c); err != nil {
		t.Fatalf("create canvas: %v", err)
	}
	if err := store.DeleteCanvas(ctx, "cnv1"); err != nil {
		t.Fatalf("delete canvas: %v", err)
	}
	if err := store.DeleteCanvas(ctx, "cnv1"); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestValueMapCascadeOnProfileDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	profile, err := vpc.NewProfile("prf1", "owner1", "Freelance designers", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if err := store.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	valueMap, err := vpc.NewValueMap("map1", "owner1", "Design retainer", "prf1", now)
	if err != nil {
		t.Fatalf("new value map: %v", err)
	}
	if err := store.CreateValueMap(ctx, valueMap); err != nil {
		t.Fatalf("create value map: %v", err)
	}

	maps, err := store.ListValueMapsForProfile(ctx, "prf1")
	if err != nil {
		t.Fatalf("list value maps: %v", err)
	}
	if len(maps) != 1 {
		t.Fatalf("expected 1 value map, got %d", len(maps))
	}

	if err := store.DeleteProfile(ctx, "prf1"); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if _, err := store.GetValueMap(ctx, "map1"); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected cascaded delete, got %v", err)
	}
}

func TestValueMapPersistsLinksAndScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	profile, err := vpc.NewProfile("prf1", "owner1", "Freelance designers", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if err := store.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	valueMap, err := vpc.NewValueMap("map1", "owner1", "Design retainer", "prf1", now)
	if err != nil {
		t.Fatalf("new value map: %v", err)
	}
	valueMap.Links = []vpc.FitLink{{SourceID: "item-a", TargetID: "item-b"}}
	valueMap.FitScore = 75
	if err := store.CreateValueMap(ctx, valueMap); err != nil {
		t.Fatalf("create value map: %v", err)
	}

	loaded, err := store.GetValueMap(ctx, "map1")
	if err != nil {
		t.Fatalf("get value map: %v", err)
	}
	if loaded.FitScore != 75 {
		t.Fatalf("fit score = %d, want 75", loaded.FitScore)
	}
	if len(loaded.Links) != 1 || loaded.Links[0].SourceID != "item-a" {
		t.Fatalf("links did not round-trip: %+v", loaded.Links)
	}
}

func TestProjectSlugUnique(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := content.NewProject("prj1", "", "Atlas Rebrand", "", "", now)
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	if err := store.CreateProject(ctx, first); err != nil {
		t.Fatalf("create project: %v", err)
	}

	second, err := content.NewProject("prj2", "atlas-rebrand", "Atlas Rebrand II", "", "", now)
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	err = store.CreateProject(ctx, second)
	if apperrors.CodeOf(err) != apperrors.CodeContentSlugTaken {
		t.Fatalf("expected slug taken, got %v", err)
	}

	loaded, err := store.GetProjectBySlug(ctx, "atlas-rebrand")
	if err != nil {
		t.Fatalf("get project by slug: %v", err)
	}
	if loaded.ID != "prj1" {
		t.Fatalf("unexpected project %q for slug", loaded.ID)
	}
}

func TestListProjectsPublishedOnly(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	draft, err := content.NewProject("prj1", "draft", "Draft", "", "", now)
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	live, err := content.NewProject("prj2", "live", "Live", "", "", now)
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	live.Published = true
	for _, p := range []*content.Project{draft, live} {
		if err := store.CreateProject(ctx, p); err != nil {
			t.Fatalf("create project %s: %v", p.ID, err)
		}
	}

	all, err := store.ListProjects(ctx, false)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(all))
	}
	published, err := store.ListProjects(ctx, true)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 || published[0].ID != "prj2" {
		t.Fatalf("unexpected published set: %+v", published)
	}
}

func TestLogEntryBySlugAndConflict(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	entry, err := content.NewLogEntry("log1", "", "Week in the studio", "Notes.", now)
	if err != nil {
		t.Fatalf("new log entry: %v", err)
	}
	if err := store.CreateLogEntry(ctx, entry); err != nil {
		t.Fatalf("create log entry: %v", err)
	}

	loaded, err := store.GetLogEntryBySlug(ctx, "week-in-the-studio")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}

	loaded.Body = "Edited."
	loaded.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateLogEntry(ctx, loaded, now); err != nil {
		t.Fatalf("update log entry: %v", err)
	}
	loaded.UpdatedAt = now.Add(2 * time.Minute)
	err = store.UpdateLogEntry(ctx, loaded, now)
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGalleryImageRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	img, err := content.NewGalleryImage("img1", "https://cdn.example/atlas.png", "Atlas logo study", "Logo sketches on paper", now)
	if err != nil {
		t.Fatalf("new gallery image: %v", err)
	}
	img.Published = true
	if err := store.CreateGalleryImage(ctx, img); err != nil {
		t.Fatalf("create gallery image: %v", err)
	}

	images, err := store.ListGalleryImages(ctx, true)
	if err != nil {
		t.Fatalf("list gallery images: %v", err)
	}
	if len(images) != 1 || images[0].AltText != "Logo sketches on paper" {
		t.Fatalf("unexpected gallery list: %+v", images)
	}
}

func TestTelemetryAppendListTrim(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		evt := storage.TelemetryEvent{
			Actor:      "admin",
			EventName:  "canvas.updated",
			EntityType: "canvas",
			EntityID:   "cnv1",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	events, err := store.ListTelemetryEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Timestamp.After(events[1].Timestamp) {
		t.Fatalf("events not newest first: %v then %v", events[0].Timestamp, events[1].Timestamp)
	}

	trimmed, err := store.TrimTelemetryEvents(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("trim events: %v", err)
	}
	if trimmed != 2 {
		t.Fatalf("expected 2 trimmed rows, got %d", trimmed)
	}
}

func TestProxyQueryAndMutate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := store.InsertRow(ctx, "projects", map[string]any{
		"id":         "prj1",
		"slug":       "atlas",
		"title":      "Atlas",
		"published":  1,
		"created_at": now.UnixMilli(),
		"updated_at": now.UnixMilli(),
	}); err != nil {
		t.Fatalf("insert row: %v", err)
	}

	rows, err := store.QueryRows(ctx, storage.TableQuery{
		Table:   "projects",
		Columns: []string{"id", "title", "published"},
		Where:   "published = ?",
		Args:    []any{1},
		OrderBy: "title ASC",
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("query rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "Atlas" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	count, err := store.CountRows(ctx, "projects", "", nil)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	if err := store.UpdateRow(ctx, "projects", "prj1", map[string]any{
		"title":      "Atlas Rebrand",
		"updated_at": now.Add(time.Minute).UnixMilli(),
	}, now); err != nil {
		t.Fatalf("update row: %v", err)
	}

	err = store.UpdateRow(ctx, "projects", "prj1", map[string]any{
		"title":      "Stale",
		"updated_at": now.Add(2 * time.Minute).UnixMilli(),
	}, now)
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	row, err := store.GetRow(ctx, "projects", []string{"id", "title"}, "prj1")
	if err != nil {
		t.Fatalf("get row: %v", err)
	}
	if row["title"] != "Atlas Rebrand" {
		t.Fatalf("unexpected row: %+v", row)
	}

	if err := store.DeleteRow(ctx, "projects", "prj1"); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if _, err := store.GetRow(ctx, "projects", []string{"id"}, "prj1"); !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected not found, got %v", err)
	}
}
