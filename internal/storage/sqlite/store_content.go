package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/louisbranch/atelier.studio/internal/content"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, p *content.Project) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (id, slug, title, summary, body, published, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, p.Summary, p.Body,
		boolToInt(p.Published), p.SortOrder,
		timeToUnixMillis(p.CreatedAt), timeToUnixMillis(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return slugTaken(p.Slug)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert project", err)
	}
	return nil
}

// GetProject loads a project by id.
func (s *Store) GetProject(ctx context.Context, id string) (*content.Project, error) {
	return s.getProjectWhere(ctx, "id = ?", id)
}

// GetProjectBySlug loads a project by slug.
func (s *Store) GetProjectBySlug(ctx context.Context, slug string) (*content.Project, error) {
	return s.getProjectWhere(ctx, "slug = ?", slug)
}

func (s *Store) getProjectWhere(ctx context.Context, where, key string) (*content.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, slug, title, summary, body, published, sort_order, created_at, updated_at
		 FROM projects WHERE `+where,
		key,
	)
	return scanProject(row, key)
}

// ListProjects returns projects ordered by sort order then recency. With
// publishedOnly set, drafts are excluded.
func (s *Store) ListProjects(ctx context.Context, publishedOnly bool) ([]*content.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := `SELECT id, slug, title, summary, body, published, sort_order, created_at, updated_at
	 FROM projects `
	if publishedOnly {
		query += "WHERE published = 1 "
	}
	query += "ORDER BY sort_order ASC, updated_at DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list projects", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var projects []*content.Project
	for rows.Next() {
		p, err := scanProject(rows, "")
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate projects", err)
	}
	return projects, nil
}

// UpdateProject writes a project guarded by its last read updated_at.
func (s *Store) UpdateProject(ctx context.Context, p *content.Project, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	err := s.optimisticUpdate(ctx, "projects",
		"slug = ?, title = ?, summary = ?, body = ?, published = ?, sort_order = ?, updated_at = ?",
		[]any{p.Slug, p.Title, p.Summary, p.Body, boolToInt(p.Published), p.SortOrder, timeToUnixMillis(p.UpdatedAt)},
		p.ID, expected)
	if isUniqueViolation(err) {
		return slugTaken(p.Slug)
	}
	return err
}

// DeleteProject removes a project by id.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", id)
}

// CreateGalleryImage inserts a new gallery image.
func (s *Store) CreateGalleryImage(ctx context.Context, img *content.GalleryImage) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO gallery_images (id, url, caption, alt_text, sort_order, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.URL, img.Caption, img.AltText, img.SortOrder,
		boolToInt(img.Published),
		timeToUnixMillis(img.CreatedAt), timeToUnixMillis(img.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert gallery image", err)
	}
	return nil
}

// GetGalleryImage loads a gallery image by id.
func (s *Store) GetGalleryImage(ctx context.Context, id string) (*content.GalleryImage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, url, caption, alt_text, sort_order, published, created_at, updated_at
		 FROM gallery_images WHERE id = ?`,
		id,
	)
	return scanGalleryImage(row, id)
}

// ListGalleryImages returns gallery images in display order.
func (s *Store) ListGalleryImages(ctx context.Context, publishedOnly bool) ([]*content.GalleryImage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := `SELECT id, url, caption, alt_text, sort_order, published, created_at, updated_at
	 FROM gallery_images `
	if publishedOnly {
		query += "WHERE published = 1 "
	}
	query += "ORDER BY sort_order ASC, created_at DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list gallery images", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var images []*content.GalleryImage
	for rows.Next() {
		img, err := scanGalleryImage(rows, "")
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate gallery images", err)
	}
	return images, nil
}

// UpdateGalleryImage writes a gallery image guarded by its last read
// updated_at.
func (s *Store) UpdateGalleryImage(ctx context.Context, img *content.GalleryImage, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "gallery_images",
		"url = ?, caption = ?, alt_text = ?, sort_order = ?, published = ?, updated_at = ?",
		[]any{img.URL, img.Caption, img.AltText, img.SortOrder, boolToInt(img.Published), timeToUnixMillis(img.UpdatedAt)},
		img.ID, expected)
}

// DeleteGalleryImage removes a gallery image by id.
func (s *Store) DeleteGalleryImage(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "gallery_images", id)
}

// CreateLogEntry inserts a new log entry.
func (s *Store) CreateLogEntry(ctx context.Context, entry *content.LogEntry) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO log_entries (id, slug, title, body, published, published_on, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Slug, entry.Title, entry.Body,
		boolToInt(entry.Published), timeToUnixMillis(entry.PublishedOn),
		timeToUnixMillis(entry.CreatedAt), timeToUnixMillis(entry.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return slugTaken(entry.Slug)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert log entry", err)
	}
	return nil
}

// GetLogEntry loads a log entry by id.
func (s *Store) GetLogEntry(ctx context.Context, id string) (*content.LogEntry, error) {
	return s.getLogEntryWhere(ctx, "id = ?", id)
}

// GetLogEntryBySlug loads a log entry by slug.
func (s *Store) GetLogEntryBySlug(ctx context.Context, slug string) (*content.LogEntry, error) {
	return s.getLogEntryWhere(ctx, "slug = ?", slug)
}

func (s *Store) getLogEntryWhere(ctx context.Context, where, key string) (*content.LogEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, slug, title, body, published, published_on, created_at, updated_at
		 FROM log_entries WHERE `+where,
		key,
	)
	return scanLogEntry(row, key)
}

// ListLogEntries returns log entries newest first.
func (s *Store) ListLogEntries(ctx context.Context, publishedOnly bool) ([]*content.LogEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := `SELECT id, slug, title, body, published, published_on, created_at, updated_at
	 FROM log_entries `
	if publishedOnly {
		query += "WHERE published = 1 "
	}
	query += "ORDER BY published_on DESC, created_at DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list log entries", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*content.LogEntry
	for rows.Next() {
		entry, err := scanLogEntry(rows, "")
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate log entries", err)
	}
	return entries, nil
}

// UpdateLogEntry writes a log entry guarded by its last read updated_at.
func (s *Store) UpdateLogEntry(ctx context.Context, entry *content.LogEntry, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	err := s.optimisticUpdate(ctx, "log_entries",
		"slug = ?, title = ?, body = ?, published = ?, published_on = ?, updated_at = ?",
		[]any{entry.Slug, entry.Title, entry.Body, boolToInt(entry.Published), timeToUnixMillis(entry.PublishedOn), timeToUnixMillis(entry.UpdatedAt)},
		entry.ID, expected)
	if isUniqueViolation(err) {
		return slugTaken(entry.Slug)
	}
	return err
}

func scanProject(row rowScanner, key string) (*content.Project, error) {
	var p content.Project
	var published int64
	var createdAt, updatedAt int64
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Body, &published, &p.SortOrder, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("projects", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan project", err)
	}
	p.Published = published != 0
	p.CreatedAt = unixMillisToTime(createdAt)
	p.UpdatedAt = unixMillisToTime(updatedAt)
	return &p, nil
}

func scanGalleryImage(row rowScanner, key string) (*content.GalleryImage, error) {
	var img content.GalleryImage
	var published int64
	var createdAt, updatedAt int64
	if err := row.Scan(&img.ID, &img.URL, &img.Caption, &img.AltText, &img.SortOrder, &published, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("gallery_images", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan gallery image", err)
	}
	img.Published = published != 0
	img.CreatedAt = unixMillisToTime(createdAt)
	img.UpdatedAt = unixMillisToTime(updatedAt)
	return &img, nil
}

func scanLogEntry(row rowScanner, key string) (*content.LogEntry, error) {
	var entry content.LogEntry
	var published int64
	var publishedOn, createdAt, updatedAt int64
	if err := row.Scan(&entry.ID, &entry.Slug, &entry.Title, &entry.Body, &published, &publishedOn, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("log_entries", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan log entry", err)
	}
	entry.Published = published != 0
	entry.PublishedOn = unixMillisToTime(publishedOn)
	entry.CreatedAt = unixMillisToTime(createdAt)
	entry.UpdatedAt = unixMillisToTime(updatedAt)
	return &entry, nil
}

func slugTaken(slug string) error {
	return apperrors.WithMetadata(apperrors.CodeContentSlugTaken,
		"slug is already in use", map[string]string{"slug": slug})
}
