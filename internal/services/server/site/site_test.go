package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

func newTestSite(t *testing.T) (*Site, *studio.Service) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := studio.NewService(store, telemetry.NewEmitter(store))
	return New(svc), svc
}

func serve(t *testing.T, s *Site, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestProjectsPageShowsOnlyPublished(t *testing.T) {
	s, svc := newTestSite(t)
	ctx := context.Background()

	published, err := svc.CreateProject(ctx, studio.ProjectInput{Slug: "lamps", Title: "Lamp Series", Summary: "Cast bronze lamps."})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := svc.SetProjectPublished(ctx, published.ID, true); err != nil {
		t.Fatalf("publish project: %v", err)
	}
	if _, err := svc.CreateProject(ctx, studio.ProjectInput{Slug: "drafts", Title: "Unfinished Work"}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	w := serve(t, s, httptest.NewRequest(http.MethodGet, "/projects", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Lamp Series") {
		t.Error("expected published project on the page")
	}
	if strings.Contains(body, "Unfinished Work") {
		t.Error("draft project leaked to the public page")
	}
}

func TestProjectPageBySlug(t *testing.T) {
	s, svc := newTestSite(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, studio.ProjectInput{Slug: "lamps", Title: "Lamp Series", Body: "Year of bronze."})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	w := serve(t, s, httptest.NewRequest(http.MethodGet, "/projects/lamps", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("draft project should 404, got %d", w.Code)
	}

	if _, err := svc.SetProjectPublished(ctx, p.ID, true); err != nil {
		t.Fatalf("publish project: %v", err)
	}
	w = serve(t, s, httptest.NewRequest(http.MethodGet, "/projects/lamps", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Year of bronze.") {
		t.Error("expected project body on the page")
	}

	w = serve(t, s, httptest.NewRequest(http.MethodGet, "/projects/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown slug should 404, got %d", w.Code)
	}
}

func TestLogEntryPage(t *testing.T) {
	s, svc := newTestSite(t)
	ctx := context.Background()

	entry, err := svc.CreateLogEntry(ctx, studio.LogEntryInput{Title: "Kiln Rebuild", Body: "Tore down the arch."})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := svc.PublishLogEntry(ctx, entry.ID); err != nil {
		t.Fatalf("publish entry: %v", err)
	}

	w := serve(t, s, httptest.NewRequest(http.MethodGet, "/log/kiln-rebuild", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Tore down the arch.") {
		t.Error("expected entry body on the page")
	}
}

func TestLanguageNegotiation(t *testing.T) {
	s, _ := newTestSite(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
	w := serve(t, s, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `lang="fr"`) || !strings.Contains(body, "Projets") {
		t.Error("expected French chrome for a French Accept-Language header")
	}

	w = serve(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(w.Body.String(), `lang="en"`) {
		t.Error("expected English chrome by default")
	}
}

func TestGalleryPage(t *testing.T) {
	s, svc := newTestSite(t)
	ctx := context.Background()

	img, err := svc.AddGalleryImage(ctx, studio.GalleryImageInput{URL: "https://img.example/1.jpg", AltText: "glazed bowl", Caption: "Shino glaze"})
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := svc.SetGalleryImagePublished(ctx, img.ID, true); err != nil {
		t.Fatalf("publish image: %v", err)
	}

	w := serve(t, s, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "glazed bowl") {
		t.Error("expected image alt text on the page")
	}
}
