package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/atelier.studio/internal/content"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	Slug      string
	Title     string
	Summary   string
	Body      string
	SortOrder int
}

// CreateProject creates a draft portfolio project.
func (s *Service) CreateProject(ctx context.Context, input ProjectInput) (*content.Project, error) {
	projectID, err := s.newID()
	if err != nil {
		return nil, err
	}
	p, err := content.NewProject(projectID, input.Slug, input.Title, input.Summary, input.Body, s.nowUTC())
	if err != nil {
		return nil, err
	}
	p.SortOrder = input.SortOrder
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, "project.created", "project", p.ID, fmt.Sprintf("Created project %q", p.Title))
	return p, nil
}

// GetProject loads a project by id.
func (s *Service) GetProject(ctx context.Context, projectID string) (*content.Project, error) {
	return s.store.GetProject(ctx, projectID)
}

// GetProjectBySlug loads a project by its public slug.
func (s *Service) GetProjectBySlug(ctx context.Context, slug string) (*content.Project, error) {
	return s.store.GetProjectBySlug(ctx, slug)
}

// ListProjects returns projects in display order.
func (s *Service) ListProjects(ctx context.Context, publishedOnly bool) ([]*content.Project, error) {
	return s.store.ListProjects(ctx, publishedOnly)
}

// UpdateProject rewrites a project's editable fields.
func (s *Service) UpdateProject(ctx context.Context, projectID string, input ProjectInput) (*content.Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expected := p.UpdatedAt

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeContentEmptyTitle, "project title is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = p.Slug
	} else if err := content.ValidateSlug(slug); err != nil {
		return nil, err
	}

	p.Slug = slug
	p.Title = title
	p.Summary = strings.TrimSpace(input.Summary)
	p.Body = input.Body
	p.SortOrder = input.SortOrder
	p.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateProject(ctx, p, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "project.updated", "project", p.ID, fmt.Sprintf("Updated project %q", p.Title))
	return p, nil
}

// SetProjectPublished publishes or unpublishes a project.
func (s *Service) SetProjectPublished(ctx context.Context, projectID string, published bool) (*content.Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expected := p.UpdatedAt
	p.Published = published
	p.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateProject(ctx, p, expected); err != nil {
		return nil, err
	}
	event := "project.unpublished"
	if published {
		event = "project.published"
	}
	s.record(ctx, event, "project", p.ID, fmt.Sprintf("Set project %q published=%t", p.Title, published))
	return p, nil
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	s.record(ctx, "project.deleted", "project", projectID, "Deleted project")
	return nil
}

// GalleryImageInput carries the editable gallery image fields.
type GalleryImageInput struct {
	URL       string
	Caption   string
	AltText   string
	SortOrder int
}

// AddGalleryImage adds a draft image to the gallery.
func (s *Service) AddGalleryImage(ctx context.Context, input GalleryImageInput) (*content.GalleryImage, error) {
	imageID, err := s.newID()
	if err != nil {
		return nil, err
	}
	img, err := content.NewGalleryImage(imageID, input.URL, input.Caption, input.AltText, s.nowUTC())
	if err != nil {
		return nil, err
	}
	img.SortOrder = input.SortOrder
	if err := s.store.CreateGalleryImage(ctx, img); err != nil {
		return nil, err
	}
	s.record(ctx, "gallery.image_added", "gallery_image", img.ID, "Added gallery image")
	return img, nil
}

// GetGalleryImage loads a gallery image by id.
func (s *Service) GetGalleryImage(ctx context.Context, imageID string) (*content.GalleryImage, error) {
	return s.store.GetGalleryImage(ctx, imageID)
}

// ListGalleryImages returns gallery images in display order.
func (s *Service) ListGalleryImages(ctx context.Context, publishedOnly bool) ([]*content.GalleryImage, error) {
	return s.store.ListGalleryImages(ctx, publishedOnly)
}

// UpdateGalleryImage rewrites a gallery image's editable fields.
func (s *Service) UpdateGalleryImage(ctx context.Context, imageID string, input GalleryImageInput) (*content.GalleryImage, error) {
	img, err := s.store.GetGalleryImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	expected := img.UpdatedAt

	if strings.TrimSpace(input.URL) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "image url is required")
	}
	altText := strings.TrimSpace(input.AltText)
	if altText == "" {
		return nil, apperrors.New(apperrors.CodeGalleryEmptyAltText, "image alt text is required")
	}

	img.URL = strings.TrimSpace(input.URL)
	img.Caption = strings.TrimSpace(input.Caption)
	img.AltText = altText
	img.SortOrder = input.SortOrder
	img.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateGalleryImage(ctx, img, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "gallery.image_updated", "gallery_image", img.ID, "Updated gallery image")
	return img, nil
}

// SetGalleryImagePublished publishes or unpublishes a gallery image.
func (s *Service) SetGalleryImagePublished(ctx context.Context, imageID string, published bool) (*content.GalleryImage, error) {
	img, err := s.store.GetGalleryImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	expected := img.UpdatedAt
	img.Published = published
	img.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateGalleryImage(ctx, img, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "gallery.image_published", "gallery_image", img.ID, fmt.Sprintf("Set gallery image published=%t", published))
	return img, nil
}

// DeleteGalleryImage removes a gallery image.
func (s *Service) DeleteGalleryImage(ctx context.Context, imageID string) error {
	if err := s.store.DeleteGalleryImage(ctx, imageID); err != nil {
		return err
	}
	s.record(ctx, "gallery.image_deleted", "gallery_image", imageID, "Deleted gallery image")
	return nil
}

// LogEntryInput carries the editable log entry fields.
type LogEntryInput struct {
	Slug  string
	Title string
	Body  string
}

// CreateLogEntry creates a draft studio log entry.
func (s *Service) CreateLogEntry(ctx context.Context, input LogEntryInput) (*content.LogEntry, error) {
	entryID, err := s.newID()
	if err != nil {
		return nil, err
	}
	entry, err := content.NewLogEntry(entryID, input.Slug, input.Title, input.Body, s.nowUTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateLogEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.record(ctx, "log.entry_created", "log_entry", entry.ID, fmt.Sprintf("Created log entry %q", entry.Title))
	return entry, nil
}

// GetLogEntry loads a log entry by id.
func (s *Service) GetLogEntry(ctx context.Context, entryID string) (*content.LogEntry, error) {
	return s.store.GetLogEntry(ctx, entryID)
}

// GetLogEntryBySlug loads a log entry by its public slug.
func (s *Service) GetLogEntryBySlug(ctx context.Context, slug string) (*content.LogEntry, error) {
	return s.store.GetLogEntryBySlug(ctx, slug)
}

// ListLogEntries returns log entries newest first.
func (s *Service) ListLogEntries(ctx context.Context, publishedOnly bool) ([]*content.LogEntry, error) {
	return s.store.ListLogEntries(ctx, publishedOnly)
}

// UpdateLogEntry rewrites a log entry's editable fields.
func (s *Service) UpdateLogEntry(ctx context.Context, entryID string, input LogEntryInput) (*content.LogEntry, error) {
	entry, err := s.store.GetLogEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	expected := entry.UpdatedAt

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeContentEmptyTitle, "log entry title is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = entry.Slug
	} else if err := content.ValidateSlug(slug); err != nil {
		return nil, err
	}

	entry.Slug = slug
	entry.Title = title
	entry.Body = input.Body
	entry.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateLogEntry(ctx, entry, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "log.entry_updated", "log_entry", entry.ID, fmt.Sprintf("Updated log entry %q", entry.Title))
	return entry, nil
}

// PublishLogEntry publishes a log entry, stamping the publication date the
// first time.
func (s *Service) PublishLogEntry(ctx context.Context, entryID string) (*content.LogEntry, error) {
	entry, err := s.store.GetLogEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	expected := entry.UpdatedAt
	entry.Published = true
	if entry.PublishedOn.IsZero() {
		entry.PublishedOn = s.nowUTC()
	}
	entry.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateLogEntry(ctx, entry, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "log.entry_published", "log_entry", entry.ID, fmt.Sprintf("Published log entry %q", entry.Title))
	return entry, nil
}

// UnpublishLogEntry pulls a log entry back to draft.
func (s *Service) UnpublishLogEntry(ctx context.Context, entryID string) (*content.LogEntry, error) {
	entry, err := s.store.GetLogEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	expected := entry.UpdatedAt
	entry.Published = false
	entry.UpdatedAt = s.nowUTC()
	if err := s.store.UpdateLogEntry(ctx, entry, expected); err != nil {
		return nil, err
	}
	s.record(ctx, "log.entry_unpublished", "log_entry", entry.ID, fmt.Sprintf("Unpublished log entry %q", entry.Title))
	return entry, nil
}
