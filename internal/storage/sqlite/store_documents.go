package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/louisbranch/atelier.studio/internal/canvas"
	"github.com/louisbranch/atelier.studio/internal/journey"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/storymap"
	"github.com/louisbranch/atelier.studio/internal/vpc"
)

// CreateCanvas inserts a new business model canvas.
func (s *Store) CreateCanvas(ctx context.Context, c *canvas.Canvas) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(c.Blocks, "canvas blocks")
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO canvases (id, owner_id, title, blocks_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Title, blocks,
		timeToUnixMillis(c.CreatedAt), timeToUnixMillis(c.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert canvas", err)
	}
	return nil
}

// GetCanvas loads a canvas by id.
func (s *Store) GetCanvas(ctx context.Context, id string) (*canvas.Canvas, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, title, blocks_json, created_at, updated_at
		 FROM canvases WHERE id = ?`,
		id,
	)
	return scanCanvas(row, id)
}

// ListCanvases returns every canvas, most recently updated first.
func (s *Store) ListCanvases(ctx context.Context) ([]*canvas.Canvas, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_id, title, blocks_json, created_at, updated_at
		 FROM canvases ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list canvases", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var canvases []*canvas.Canvas
	for rows.Next() {
		c, err := scanCanvas(rows, "")
		if err != nil {
			return nil, err
		}
		canvases = append(canvases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate canvases", err)
	}
	return canvases, nil
}

// UpdateCanvas writes a canvas guarded by its last read updated_at.
func (s *Store) UpdateCanvas(ctx context.Context, c *canvas.Canvas, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(c.Blocks, "canvas blocks")
	if err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "canvases",
		"title = ?, blocks_json = ?, updated_at = ?",
		[]any{c.Title, blocks, timeToUnixMillis(c.UpdatedAt)},
		c.ID, expected)
}

// DeleteCanvas removes a canvas by id.
func (s *Store) DeleteCanvas(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "canvases", id)
}

// CreateProfile inserts a new customer profile.
func (s *Store) CreateProfile(ctx context.Context, p *vpc.CustomerProfile) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(p.Blocks, "profile blocks")
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO customer_profiles (id, owner_id, title, blocks_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Title, blocks,
		timeToUnixMillis(p.CreatedAt), timeToUnixMillis(p.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert customer profile", err)
	}
	return nil
}

// GetProfile loads a customer profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (*vpc.CustomerProfile, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, title, blocks_json, created_at, updated_at
		 FROM customer_profiles WHERE id = ?`,
		id,
	)
	return scanProfile(row, id)
}

// ListProfiles returns every customer profile, most recently updated first.
func (s *Store) ListProfiles(ctx context.Context) ([]*vpc.CustomerProfile, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_id, title, blocks_json, created_at, updated_at
		 FROM customer_profiles ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list customer profiles", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var profiles []*vpc.CustomerProfile
	for rows.Next() {
		p, err := scanProfile(rows, "")
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate customer profiles", err)
	}
	return profiles, nil
}

// UpdateProfile writes a customer profile guarded by its last read updated_at.
func (s *Store) UpdateProfile(ctx context.Context, p *vpc.CustomerProfile, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(p.Blocks, "profile blocks")
	if err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "customer_profiles",
		"title = ?, blocks_json = ?, updated_at = ?",
		[]any{p.Title, blocks, timeToUnixMillis(p.UpdatedAt)},
		p.ID, expected)
}

// DeleteProfile removes a customer profile and every value map bound to it.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM value_maps WHERE profile_id = ?`, id); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "delete value maps for profile", err)
	}
	return s.deleteByID(ctx, "customer_profiles", id)
}

// CreateValueMap inserts a new value map.
func (s *Store) CreateValueMap(ctx context.Context, m *vpc.ValueMap) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(m.Blocks, "value map blocks")
	if err != nil {
		return err
	}
	links, err := marshalJSON(emptyIfNilLinks(m.Links), "value map links")
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO value_maps (id, owner_id, title, profile_id, blocks_json, links_json, fit_score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.Title, m.ProfileID, blocks, links, m.FitScore,
		timeToUnixMillis(m.CreatedAt), timeToUnixMillis(m.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert value map", err)
	}
	return nil
}

// GetValueMap loads a value map by id.
func (s *Store) GetValueMap(ctx context.Context, id string) (*vpc.ValueMap, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, title, profile_id, blocks_json, links_json, fit_score, created_at, updated_at
		 FROM value_maps WHERE id = ?`,
		id,
	)
	return scanValueMap(row, id)
}

// ListValueMaps returns every value map, most recently updated first.
func (s *Store) ListValueMaps(ctx context.Context) ([]*vpc.ValueMap, error) {
	return s.listValueMapsWhere(ctx, "", nil)
}

// ListValueMapsForProfile returns the value maps bound to one profile.
func (s *Store) ListValueMapsForProfile(ctx context.Context, profileID string) ([]*vpc.ValueMap, error) {
	return s.listValueMapsWhere(ctx, "WHERE profile_id = ?", []any{profileID})
}

func (s *Store) listValueMapsWhere(ctx context.Context, where string, args []any) ([]*vpc.ValueMap, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := `SELECT id, owner_id, title, profile_id, blocks_json, links_json, fit_score, created_at, updated_at
	 FROM value_maps `
	if where != "" {
		query += where + " "
	}
	query += "ORDER BY updated_at DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list value maps", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var maps []*vpc.ValueMap
	for rows.Next() {
		m, err := scanValueMap(rows, "")
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate value maps", err)
	}
	return maps, nil
}

// UpdateValueMap writes a value map guarded by its last read updated_at.
func (s *Store) UpdateValueMap(ctx context.Context, m *vpc.ValueMap, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	blocks, err := marshalJSON(m.Blocks, "value map blocks")
	if err != nil {
		return err
	}
	links, err := marshalJSON(emptyIfNilLinks(m.Links), "value map links")
	if err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "value_maps",
		"title = ?, blocks_json = ?, links_json = ?, fit_score = ?, updated_at = ?",
		[]any{m.Title, blocks, links, m.FitScore, timeToUnixMillis(m.UpdatedAt)},
		m.ID, expected)
}

// DeleteValueMap removes a value map by id.
func (s *Store) DeleteValueMap(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "value_maps", id)
}

// CreateJourney inserts a new customer journey.
func (s *Store) CreateJourney(ctx context.Context, j *journey.Journey) error {
	if err := s.ready(); err != nil {
		return err
	}
	stages, err := marshalJSON(emptyIfNilStages(j.Stages), "journey stages")
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO journeys (id, owner_id, title, stages_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.OwnerID, j.Title, stages,
		timeToUnixMillis(j.CreatedAt), timeToUnixMillis(j.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert journey", err)
	}
	return nil
}

// GetJourney loads a journey by id.
func (s *Store) GetJourney(ctx context.Context, id string) (*journey.Journey, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, title, stages_json, created_at, updated_at
		 FROM journeys WHERE id = ?`,
		id,
	)
	return scanJourney(row, id)
}

// ListJourneys returns every journey, most recently updated first.
func (s *Store) ListJourneys(ctx context.Context) ([]*journey.Journey, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_id, title, stages_json, created_at, updated_at
		 FROM journeys ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list journeys", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var journeys []*journey.Journey
	for rows.Next() {
		j, err := scanJourney(rows, "")
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate journeys", err)
	}
	return journeys, nil
}

// UpdateJourney writes a journey guarded by its last read updated_at.
func (s *Store) UpdateJourney(ctx context.Context, j *journey.Journey, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	stages, err := marshalJSON(emptyIfNilStages(j.Stages), "journey stages")
	if err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "journeys",
		"title = ?, stages_json = ?, updated_at = ?",
		[]any{j.Title, stages, timeToUnixMillis(j.UpdatedAt)},
		j.ID, expected)
}

// DeleteJourney removes a journey by id.
func (s *Store) DeleteJourney(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "journeys", id)
}

// CreateStoryMap inserts a new story map.
func (s *Store) CreateStoryMap(ctx context.Context, m *storymap.StoryMap) error {
	if err := s.ready(); err != nil {
		return err
	}
	releases, activities, err := marshalStoryMap(m)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO story_maps (id, owner_id, title, releases_json, activities_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.Title, releases, activities,
		timeToUnixMillis(m.CreatedAt), timeToUnixMillis(m.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert story map", err)
	}
	return nil
}

// GetStoryMap loads a story map by id.
func (s *Store) GetStoryMap(ctx context.Context, id string) (*storymap.StoryMap, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, title, releases_json, activities_json, created_at, updated_at
		 FROM story_maps WHERE id = ?`,
		id,
	)
	return scanStoryMap(row, id)
}

// ListStoryMaps returns every story map, most recently updated first.
func (s *Store) ListStoryMaps(ctx context.Context) ([]*storymap.StoryMap, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_id, title, releases_json, activities_json, created_at, updated_at
		 FROM story_maps ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list story maps", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var maps []*storymap.StoryMap
	for rows.Next() {
		m, err := scanStoryMap(rows, "")
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate story maps", err)
	}
	return maps, nil
}

// UpdateStoryMap writes a story map guarded by its last read updated_at.
func (s *Store) UpdateStoryMap(ctx context.Context, m *storymap.StoryMap, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	releases, activities, err := marshalStoryMap(m)
	if err != nil {
		return err
	}
	return s.optimisticUpdate(ctx, "story_maps",
		"title = ?, releases_json = ?, activities_json = ?, updated_at = ?",
		[]any{m.Title, releases, activities, timeToUnixMillis(m.UpdatedAt)},
		m.ID, expected)
}

// DeleteStoryMap removes a story map by id.
func (s *Store) DeleteStoryMap(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "story_maps", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCanvas(row rowScanner, id string) (*canvas.Canvas, error) {
	var c canvas.Canvas
	var blocks []byte
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &blocks, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("canvases", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan canvas", err)
	}
	if err := unmarshalJSON(blocks, &c.Blocks, "canvas blocks"); err != nil {
		return nil, err
	}
	c.CreatedAt = unixMillisToTime(createdAt)
	c.UpdatedAt = unixMillisToTime(updatedAt)
	return &c, nil
}

func scanProfile(row rowScanner, id string) (*vpc.CustomerProfile, error) {
	var p vpc.CustomerProfile
	var blocks []byte
	var createdAt, updatedAt int64
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &blocks, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("customer_profiles", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan customer profile", err)
	}
	if err := unmarshalJSON(blocks, &p.Blocks, "profile blocks"); err != nil {
		return nil, err
	}
	p.CreatedAt = unixMillisToTime(createdAt)
	p.UpdatedAt = unixMillisToTime(updatedAt)
	return &p, nil
}

func scanValueMap(row rowScanner, id string) (*vpc.ValueMap, error) {
	var m vpc.ValueMap
	var blocks, links []byte
	var createdAt, updatedAt int64
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &m.ProfileID, &blocks, &links, &m.FitScore, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("value_maps", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan value map", err)
	}
	if err := unmarshalJSON(blocks, &m.Blocks, "value map blocks"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(links, &m.Links, "value map links"); err != nil {
		return nil, err
	}
	m.CreatedAt = unixMillisToTime(createdAt)
	m.UpdatedAt = unixMillisToTime(updatedAt)
	return &m, nil
}

func scanJourney(row rowScanner, id string) (*journey.Journey, error) {
	var j journey.Journey
	var stages []byte
	var createdAt, updatedAt int64
	if err := row.Scan(&j.ID, &j.OwnerID, &j.Title, &stages, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("journeys", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan journey", err)
	}
	if err := unmarshalJSON(stages, &j.Stages, "journey stages"); err != nil {
		return nil, err
	}
	j.CreatedAt = unixMillisToTime(createdAt)
	j.UpdatedAt = unixMillisToTime(updatedAt)
	return &j, nil
}

func scanStoryMap(row rowScanner, id string) (*storymap.StoryMap, error) {
	var m storymap.StoryMap
	var releases, activities []byte
	var createdAt, updatedAt int64
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &releases, &activities, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound("story_maps", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan story map", err)
	}
	if err := unmarshalJSON(releases, &m.Releases, "story map releases"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(activities, &m.Activities, "story map activities"); err != nil {
		return nil, err
	}
	m.CreatedAt = unixMillisToTime(createdAt)
	m.UpdatedAt = unixMillisToTime(updatedAt)
	return &m, nil
}

func marshalStoryMap(m *storymap.StoryMap) (releases, activities []byte, err error) {
	releases, err = marshalJSON(emptyIfNilStrings(m.Releases), "story map releases")
	if err != nil {
		return nil, nil, err
	}
	activities, err = marshalJSON(emptyIfNilActivities(m.Activities), "story map activities")
	if err != nil {
		return nil, nil, err
	}
	return releases, activities, nil
}

func marshalJSON(value any, what string) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "encode "+what, err)
	}
	return data, nil
}

func unmarshalJSON(data []byte, target any, what string) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "decode "+what, err)
	}
	return nil
}

// JSON columns store [] rather than null so older rows stay scannable.

func emptyIfNilLinks(links []vpc.FitLink) []vpc.FitLink {
	if links == nil {
		return []vpc.FitLink{}
	}
	return links
}

func emptyIfNilStages(stages []journey.Stage) []journey.Stage {
	if stages == nil {
		return []journey.Stage{}
	}
	return stages
}

func emptyIfNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilActivities(activities []storymap.Activity) []storymap.Activity {
	if activities == nil {
		return []storymap.Activity{}
	}
	return activities
}
