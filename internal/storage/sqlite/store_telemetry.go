package sqlite

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/storage"
)

// AppendTelemetryEvent records one admin activity event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := s.ready(); err != nil {
		return err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (actor, event_name, entity_type, entity_id, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		evt.Actor, evt.EventName, evt.EntityType, evt.EntityID, evt.Summary,
		timeToUnixMillis(evt.Timestamp),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert telemetry event", err)
	}
	return nil
}

// ListTelemetryEvents returns the newest events, capped at limit.
func (s *Store) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, actor, event_name, entity_type, entity_id, summary, created_at
		 FROM telemetry_events ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "list telemetry events", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []storage.TelemetryEvent
	for rows.Next() {
		var evt storage.TelemetryEvent
		var createdAt int64
		if err := rows.Scan(&evt.Seq, &evt.Actor, &evt.EventName, &evt.EntityType, &evt.EntityID, &evt.Summary, &createdAt); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan telemetry event", err)
		}
		evt.Timestamp = unixMillisToTime(createdAt)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate telemetry events", err)
	}
	return events, nil
}

// TrimTelemetryEvents deletes events older than the cutoff and reports how
// many rows went away.
func (s *Store) TrimTelemetryEvents(ctx context.Context, before time.Time) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM telemetry_events WHERE created_at < ?`,
		timeToUnixMillis(before),
	)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "trim telemetry events", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "trim telemetry events", err)
	}
	return affected, nil
}
