package admin

import (
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	"github.com/louisbranch/atelier.studio/internal/canvas"
	"github.com/louisbranch/atelier.studio/internal/content"
	"github.com/louisbranch/atelier.studio/internal/journey"
	"github.com/louisbranch/atelier.studio/internal/storymap"
	"github.com/louisbranch/atelier.studio/internal/vpc"
)

// Views wrap the domain types with wire tags. Timestamps travel as
// millisecond UTC so updated_at can round-trip through optimistic writes.

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

type canvasView struct {
	ID        string                          `json:"id"`
	Title     string                          `json:"title"`
	Blocks    map[canvas.BlockName]block.Block `json:"blocks"`
	CreatedAt int64                           `json:"created_at"`
	UpdatedAt int64                           `json:"updated_at"`
}

func newCanvasView(c *canvas.Canvas) canvasView {
	return canvasView{
		ID:        c.ID,
		Title:     c.Title,
		Blocks:    c.Blocks,
		CreatedAt: unixMillis(c.CreatedAt),
		UpdatedAt: unixMillis(c.UpdatedAt),
	}
}

type profileView struct {
	ID        string                               `json:"id"`
	Title     string                               `json:"title"`
	Blocks    map[vpc.ProfileBlockName]block.Block `json:"blocks"`
	CreatedAt int64                                `json:"created_at"`
	UpdatedAt int64                                `json:"updated_at"`
}

func newProfileView(p *vpc.CustomerProfile) profileView {
	return profileView{
		ID:        p.ID,
		Title:     p.Title,
		Blocks:    p.Blocks,
		CreatedAt: unixMillis(p.CreatedAt),
		UpdatedAt: unixMillis(p.UpdatedAt),
	}
}

type valueMapView struct {
	ID        string                           `json:"id"`
	Title     string                           `json:"title"`
	ProfileID string                           `json:"profile_id"`
	Blocks    map[vpc.MapBlockName]block.Block `json:"blocks"`
	Links     []vpc.FitLink                    `json:"links"`
	FitScore  int                              `json:"fit_score"`
	CreatedAt int64                            `json:"created_at"`
	UpdatedAt int64                            `json:"updated_at"`
}

func newValueMapView(m *vpc.ValueMap) valueMapView {
	return valueMapView{
		ID:        m.ID,
		Title:     m.Title,
		ProfileID: m.ProfileID,
		Blocks:    m.Blocks,
		Links:     m.Links,
		FitScore:  m.FitScore,
		CreatedAt: unixMillis(m.CreatedAt),
		UpdatedAt: unixMillis(m.UpdatedAt),
	}
}

type journeyView struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Stages    []journey.Stage `json:"stages"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

func newJourneyView(j *journey.Journey) journeyView {
	return journeyView{
		ID:        j.ID,
		Title:     j.Title,
		Stages:    j.Stages,
		CreatedAt: unixMillis(j.CreatedAt),
		UpdatedAt: unixMillis(j.UpdatedAt),
	}
}

type storyMapView struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Releases   []string            `json:"releases"`
	Activities []storymap.Activity `json:"activities"`
	CreatedAt  int64               `json:"created_at"`
	UpdatedAt  int64               `json:"updated_at"`
}

func newStoryMapView(m *storymap.StoryMap) storyMapView {
	return storyMapView{
		ID:         m.ID,
		Title:      m.Title,
		Releases:   m.Releases,
		Activities: m.Activities,
		CreatedAt:  unixMillis(m.CreatedAt),
		UpdatedAt:  unixMillis(m.UpdatedAt),
	}
}

type projectView struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	SortOrder int    `json:"sort_order"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func newProjectView(p *content.Project) projectView {
	return projectView{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Summary:   p.Summary,
		Body:      p.Body,
		Published: p.Published,
		SortOrder: p.SortOrder,
		CreatedAt: unixMillis(p.CreatedAt),
		UpdatedAt: unixMillis(p.UpdatedAt),
	}
}

type imageView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	AltText   string `json:"alt_text"`
	Published bool   `json:"published"`
	SortOrder int    `json:"sort_order"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func newImageView(img *content.GalleryImage) imageView {
	return imageView{
		ID:        img.ID,
		URL:       img.URL,
		Caption:   img.Caption,
		AltText:   img.AltText,
		Published: img.Published,
		SortOrder: img.SortOrder,
		CreatedAt: unixMillis(img.CreatedAt),
		UpdatedAt: unixMillis(img.UpdatedAt),
	}
}

type entryView struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Published   bool   `json:"published"`
	PublishedOn int64  `json:"published_on"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func newEntryView(e *content.LogEntry) entryView {
	return entryView{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Body:        e.Body,
		Published:   e.Published,
		PublishedOn: unixMillis(e.PublishedOn),
		CreatedAt:   unixMillis(e.CreatedAt),
		UpdatedAt:   unixMillis(e.UpdatedAt),
	}
}
