// Package storage defines the persistence contracts for studio data.
//
// All writes to versioned records go through optimistic updates: the caller
// passes the updated_at value it last read, and the store refuses the write
// when the stored value no longer matches.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/atelier.studio/internal/canvas"
	"github.com/louisbranch/atelier.studio/internal/content"
	"github.com/louisbranch/atelier.studio/internal/journey"
	"github.com/louisbranch/atelier.studio/internal/storymap"
	"github.com/louisbranch/atelier.studio/internal/vpc"
)

// TelemetryEvent is one admin activity record.
type TelemetryEvent struct {
	Seq        int64
	Actor      string
	EventName  string
	EntityType string
	EntityID   string
	Summary    string
	Timestamp  time.Time
}

// TableQuery describes one read against an allow-listed table. The caller is
// responsible for validating the table, columns, and filter before building
// the query; the store only executes it.
type TableQuery struct {
	Table   string
	Columns []string
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// CanvasStore persists business model canvases.
type CanvasStore interface {
	CreateCanvas(ctx context.Context, c *canvas.Canvas) error
	GetCanvas(ctx context.Context, id string) (*canvas.Canvas, error)
	ListCanvases(ctx context.Context) ([]*canvas.Canvas, error)
	UpdateCanvas(ctx context.Context, c *canvas.Canvas, expected time.Time) error
	DeleteCanvas(ctx context.Context, id string) error
}

// VPCStore persists customer profiles and value maps.
type VPCStore interface {
	CreateProfile(ctx context.Context, p *vpc.CustomerProfile) error
	GetProfile(ctx context.Context, id string) (*vpc.CustomerProfile, error)
	ListProfiles(ctx context.Context) ([]*vpc.CustomerProfile, error)
	UpdateProfile(ctx context.Context, p *vpc.CustomerProfile, expected time.Time) error
	DeleteProfile(ctx context.Context, id string) error

	CreateValueMap(ctx context.Context, m *vpc.ValueMap) error
	GetValueMap(ctx context.Context, id string) (*vpc.ValueMap, error)
	ListValueMaps(ctx context.Context) ([]*vpc.ValueMap, error)
	ListValueMapsForProfile(ctx context.Context, profileID string) ([]*vpc.ValueMap, error)
	UpdateValueMap(ctx context.Context, m *vpc.ValueMap, expected time.Time) error
	DeleteValueMap(ctx context.Context, id string) error
}

// JourneyStore persists customer journeys.
type JourneyStore interface {
	CreateJourney(ctx context.Context, j *journey.Journey) error
	GetJourney(ctx context.Context, id string) (*journey.Journey, error)
	ListJourneys(ctx context.Context) ([]*journey.Journey, error)
	UpdateJourney(ctx context.Context, j *journey.Journey, expected time.Time) error
	DeleteJourney(ctx context.Context, id string) error
}

// StoryMapStore persists user story maps.
type StoryMapStore interface {
	CreateStoryMap(ctx context.Context, m *storymap.StoryMap) error
	GetStoryMap(ctx context.Context, id string) (*storymap.StoryMap, error)
	ListStoryMaps(ctx context.Context) ([]*storymap.StoryMap, error)
	UpdateStoryMap(ctx context.Context, m *storymap.StoryMap, expected time.Time) error
	DeleteStoryMap(ctx context.Context, id string) error
}

// ContentStore persists public site content.
type ContentStore interface {
	CreateProject(ctx context.Context, p *content.Project) error
	GetProject(ctx context.Context, id string) (*content.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*content.Project, error)
	ListProjects(ctx context.Context, publishedOnly bool) ([]*content.Project, error)
	UpdateProject(ctx context.Context, p *content.Project, expected time.Time) error
	DeleteProject(ctx context.Context, id string) error

	CreateGalleryImage(ctx context.Context, img *content.GalleryImage) error
	GetGalleryImage(ctx context.Context, id string) (*content.GalleryImage, error)
	ListGalleryImages(ctx context.Context, publishedOnly bool) ([]*content.GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, img *content.GalleryImage, expected time.Time) error
	DeleteGalleryImage(ctx context.Context, id string) error

	CreateLogEntry(ctx context.Context, entry *content.LogEntry) error
	GetLogEntry(ctx context.Context, id string) (*content.LogEntry, error)
	GetLogEntryBySlug(ctx context.Context, slug string) (*content.LogEntry, error)
	ListLogEntries(ctx context.Context, publishedOnly bool) ([]*content.LogEntry, error)
	UpdateLogEntry(ctx context.Context, entry *content.LogEntry, expected time.Time) error
}

// TelemetryStore persists the admin activity journal.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
	ListTelemetryEvents(ctx context.Context, limit int) ([]TelemetryEvent, error)
	TrimTelemetryEvents(ctx context.Context, before time.Time) (int64, error)
}

// ProxyStore executes pre-validated generic reads and writes for the
// table-proxy API.
type ProxyStore interface {
	QueryRows(ctx context.Context, q TableQuery) ([]map[string]any, error)
	CountRows(ctx context.Context, table, where string, args []any) (int64, error)
	GetRow(ctx context.Context, table string, columns []string, id string) (map[string]any, error)
	InsertRow(ctx context.Context, table string, values map[string]any) error
	UpdateRow(ctx context.Context, table, id string, values map[string]any, expected time.Time) error
	DeleteRow(ctx context.Context, table, id string) error
}

// Store is the full persistence contract for the studio.
type Store interface {
	CanvasStore
	VPCStore
	JourneyStore
	StoryMapStore
	ContentStore
	TelemetryStore
	ProxyStore
	Close() error
}
