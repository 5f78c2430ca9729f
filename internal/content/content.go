// Package content models the public studio surfaces: portfolio projects,
// gallery images, and the studio log. Public pages render only published
// rows; drafts stay admin-only.
package content

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks a URL slug: lowercase alphanumerics and hyphens only.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return apperrors.WithMetadata(apperrors.CodeContentInvalidSlug,
			"slug must be lowercase alphanumerics separated by hyphens",
			map[string]string{"slug": slug})
	}
	return nil
}

// Slugify derives a slug from a title. Returns an error when nothing
// slug-worthy remains.
func Slugify(title string) (string, error) {
	var builder strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			builder.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(builder.String(), "-")
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	return slug, nil
}

// Project is a portfolio entry.
type Project struct {
	ID        string
	Slug      string
	Title     string
	Summary   string
	Body      string
	Published bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProject creates a draft project, deriving the slug from the title when
// slug is empty.
func NewProject(id, slug, title, summary, body string, now time.Time) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeContentEmptyTitle, "project title is required")
	}
	if slug == "" {
		derived, err := Slugify(title)
		if err != nil {
			return nil, err
		}
		slug = derived
	} else if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return &Project{
		ID:        id,
		Slug:      slug,
		Title:     title,
		Summary:   strings.TrimSpace(summary),
		Body:      body,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// GalleryImage is one image in the public gallery.
type GalleryImage struct {
	ID        string
	URL       string
	Caption   string
	AltText   string
	SortOrder int
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGalleryImage creates a gallery image. Alt text is required so the
// public gallery stays accessible.
func NewGalleryImage(id, url, caption, altText string, now time.Time) (*GalleryImage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "image url is required")
	}
	altText = strings.TrimSpace(altText)
	if altText == "" {
		return nil, apperrors.New(apperrors.CodeGalleryEmptyAltText, "image alt text is required")
	}
	return &GalleryImage{
		ID:        id,
		URL:       strings.TrimSpace(url),
		Caption:   strings.TrimSpace(caption),
		AltText:   altText,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// LogEntry is one dated post in the studio log.
type LogEntry struct {
	ID          string
	Slug        string
	Title       string
	Body        string
	Published   bool
	PublishedOn time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLogEntry creates a draft log entry, deriving the slug when empty.
func NewLogEntry(id, slug, title, body string, now time.Time) (*LogEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeContentEmptyTitle, "log entry title is required")
	}
	if slug == "" {
		derived, err := Slugify(title)
		if err != nil {
			return nil, err
		}
		slug = derived
	} else if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return &LogEntry{
		ID:        id,
		Slug:      slug,
		Title:     title,
		Body:      body,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}
