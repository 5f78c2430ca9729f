// Package admin serves the studio dashboard: session-gated pages, the JSON
// action endpoints the editor UI calls, and the live activity feed.
package admin

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/branding"
	"github.com/louisbranch/atelier.studio/internal/platform/requestctx"
	"github.com/louisbranch/atelier.studio/internal/storage"
	"github.com/louisbranch/atelier.studio/internal/studio"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// activityPageSize caps the dashboard feed.
const activityPageSize = 50

// Admin hosts the dashboard routes.
type Admin struct {
	svc          *studio.Service
	cfg          Config
	introspector Introspector
	httpClient   *http.Client
}

// New creates the dashboard handler set. A nil introspector defaults to the
// auth service's HTTP introspection endpoint.
func New(svc *studio.Service, cfg Config, introspector Introspector) *Admin {
	if introspector == nil {
		introspector = &HTTPIntrospector{AuthURL: cfg.AuthURL, ResourceSecret: cfg.ResourceSecret}
	}
	return &Admin{
		svc:          svc,
		cfg:          cfg,
		introspector: introspector,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterRoutes mounts the dashboard on mux.
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/login", a.handleLogin)
	mux.HandleFunc("GET /admin/oauth/callback", a.handleOAuthCallback)
	mux.HandleFunc("POST /admin/logout", a.handleLogout)

	mux.HandleFunc("GET /admin", a.requireSession(a.handleDashboard))
	mux.HandleFunc("GET /admin/feed/ws", a.requireSession(a.handleFeedSocket))

	a.registerActions(mux)
}

type dashboardData struct {
	Title      string
	Operator   string
	Canvases   int
	Profiles   int
	ValueMaps  int
	Journeys   int
	StoryMaps  int
	Projects   int
	LogEntries int
	Activity   []storage.TelemetryEvent
}

func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := dashboardData{
		Title:    branding.AppName + " Admin",
		Operator: requestctx.UserIDFromContext(ctx),
	}

	if canvases, err := a.svc.ListCanvases(ctx); err == nil {
		data.Canvases = len(canvases)
	}
	if profiles, err := a.svc.ListProfiles(ctx); err == nil {
		data.Profiles = len(profiles)
	}
	if maps, err := a.svc.ListValueMaps(ctx); err == nil {
		data.ValueMaps = len(maps)
	}
	if journeys, err := a.svc.ListJourneys(ctx); err == nil {
		data.Journeys = len(journeys)
	}
	if storyMaps, err := a.svc.ListStoryMaps(ctx); err == nil {
		data.StoryMaps = len(storyMaps)
	}
	if projects, err := a.svc.ListProjects(ctx, false); err == nil {
		data.Projects = len(projects)
	}
	if entries, err := a.svc.ListLogEntries(ctx, false); err == nil {
		data.LogEntries = len(entries)
	}

	activity, err := a.svc.Activity(ctx, activityPageSize)
	if err != nil {
		log.Printf("load activity feed: %v", err)
	}
	data.Activity = activity

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("render dashboard: %v", err)
	}
}
