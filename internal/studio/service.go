// Package studio holds the application services behind the admin UI, the
// proxy API, and the MCP tools. Every mutation follows the same shape: load
// the record, apply the domain change, then write it back guarded by the
// updated_at value that was read. A concurrent writer turns the write into a
// conflict instead of silently losing items.
package studio

import (
	"context"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/id"
	"github.com/louisbranch/atelier.studio/internal/platform/requestctx"
	"github.com/louisbranch/atelier.studio/internal/storage"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

// Service orchestrates studio use-cases over the store.
type Service struct {
	store   storage.Store
	emitter *telemetry.Emitter
	clock   func() time.Time
	newID   func() (string, error)
}

// NewService constructs the studio application service.
func NewService(store storage.Store, emitter *telemetry.Emitter) *Service {
	return &Service{
		store:   store,
		emitter: emitter,
		clock:   time.Now,
		newID:   id.NewID,
	}
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Service) record(ctx context.Context, eventName, entityType, entityID, summary string) {
	s.emitter.Record(ctx, actorOrDefault(ctx), eventName, entityType, entityID, summary)
}

// actorOrDefault resolves the acting user from the request context, falling
// back to the studio owner for tooling that runs outside a session.
func actorOrDefault(ctx context.Context) string {
	if actor := requestctx.UserIDFromContext(ctx); actor != "" {
		return actor
	}
	return "admin"
}

// Activity returns the newest admin activity events.
func (s *Service) Activity(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	return s.store.ListTelemetryEvents(ctx, limit)
}
