package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/atelier.studio/internal/storage"
)

type fakeTelemetryStore struct {
	last  storage.TelemetryEvent
	count int
}

func (s *fakeTelemetryStore) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	s.last = evt
	s.count++
	return nil
}

func (s *fakeTelemetryStore) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	return nil, nil
}

func (s *fakeTelemetryStore) TrimTelemetryEvents(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func TestEmitterNoopWhenNil(t *testing.T) {
	var emitter *Emitter
	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmitterNoopWhenStoreNil(t *testing.T) {
	emitter := &Emitter{}
	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmitterAddsTimestamp(t *testing.T) {
	store := &fakeTelemetryStore{}
	clockTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	emitter := &Emitter{store: store, clock: func() time.Time { return clockTime }}

	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{EventName: "canvas.updated"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if store.count != 1 {
		t.Fatalf("expected 1 event, got %d", store.count)
	}
	if !store.last.Timestamp.Equal(clockTime) {
		t.Fatalf("timestamp = %v, want %v", store.last.Timestamp, clockTime)
	}
}

func TestEmitterKeepsExplicitTimestamp(t *testing.T) {
	store := &fakeTelemetryStore{}
	emitter := NewEmitter(store)
	stamp := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{EventName: "x", Timestamp: stamp}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !store.last.Timestamp.Equal(stamp) {
		t.Fatalf("timestamp was overwritten: %v", store.last.Timestamp)
	}
}

func TestRecordBuildsEvent(t *testing.T) {
	store := &fakeTelemetryStore{}
	emitter := NewEmitter(store)

	emitter.Record(context.Background(), "admin", "project.published", "project", "prj1", "Published Atlas Rebrand")
	if store.count != 1 {
		t.Fatalf("expected 1 event, got %d", store.count)
	}
	if store.last.EventName != "project.published" || store.last.EntityID != "prj1" {
		t.Fatalf("unexpected event %+v", store.last)
	}
}
