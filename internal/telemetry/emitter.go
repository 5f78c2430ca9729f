// Package telemetry records admin activity events for the studio dashboard.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/atelier.studio/internal/storage"
)

// Emitter records activity events to the telemetry journal.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records an activity event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// Record is a convenience wrapper that builds the event from parts and drops
// the error. Activity logging must never fail a user action.
func (e *Emitter) Record(ctx context.Context, actor, eventName, entityType, entityID, summary string) {
	_ = e.Emit(ctx, storage.TelemetryEvent{
		Actor:      actor,
		EventName:  eventName,
		EntityType: entityType,
		EntityID:   entityID,
		Summary:    summary,
	})
}
