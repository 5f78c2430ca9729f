// Package site serves the public pages: portfolio projects, the gallery,
// and the studio log. Only published rows are shown and page chrome is
// negotiated from the Accept-Language header.
package site

import (
	"log"
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/content"
	"github.com/louisbranch/atelier.studio/internal/platform/branding"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/studio"
)

// Site renders the public pages over the studio service.
type Site struct {
	svc *studio.Service
}

// New creates the public site handler set.
func New(svc *studio.Service) *Site {
	return &Site{svc: svc}
}

// RegisterRoutes mounts the public pages on mux.
func (s *Site) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /projects", s.handleProjects)
	mux.HandleFunc("GET /projects/{slug}", s.handleProject)
	mux.HandleFunc("GET /gallery", s.handleGallery)
	mux.HandleFunc("GET /log", s.handleLog)
	mux.HandleFunc("GET /log/{slug}", s.handleLogEntry)
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type pageData struct {
	Title    string
	Copy     Copy
	Projects []*content.Project
	Images   []*content.GalleryImage
	Entries  []*content.LogEntry
	Project  *content.Project
	Entry    *content.LogEntry
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context(), true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if len(projects) > 6 {
		projects = projects[:6]
	}
	s.render(w, r, "home.html", pageData{
		Title:    branding.AppName,
		Copy:     copyFor(r),
		Projects: projects,
	})
}

func (s *Site) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context(), true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	copy := copyFor(r)
	s.render(w, r, "projects.html", pageData{
		Title:    copy.ProjectsHead,
		Copy:     copy,
		Projects: projects,
	})
}

func (s *Site) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.svc.GetProjectBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if !project.Published {
		s.renderNotFound(w, r)
		return
	}
	s.render(w, r, "project.html", pageData{
		Title:   project.Title,
		Copy:    copyFor(r),
		Project: project,
	})
}

func (s *Site) handleGallery(w http.ResponseWriter, r *http.Request) {
	images, err := s.svc.ListGalleryImages(r.Context(), true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	copy := copyFor(r)
	s.render(w, r, "gallery.html", pageData{
		Title:  copy.GalleryHead,
		Copy:   copy,
		Images: images,
	})
}

func (s *Site) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.ListLogEntries(r.Context(), true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	copy := copyFor(r)
	s.render(w, r, "log.html", pageData{
		Title:   copy.LogHead,
		Copy:    copy,
		Entries: entries,
	})
}

func (s *Site) handleLogEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.GetLogEntryBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if !entry.Published {
		s.renderNotFound(w, r)
		return
	}
	s.render(w, r, "log_entry.html", pageData{
		Title: entry.Title,
		Copy:  copyFor(r),
		Entry: entry,
	})
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (s *Site) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := templates.ExecuteTemplate(w, "not_found.html", pageData{Title: "404", Copy: copyFor(r)}); err != nil {
		log.Printf("render not_found: %v", err)
	}
}

func (s *Site) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.CodeOf(err) == apperrors.CodeNotFound {
		s.renderNotFound(w, r)
		return
	}
	log.Printf("public page failed: %v", err)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}
