// Package app runs the background maintenance loop: expired OAuth state is
// purged from the auth database and old activity events are trimmed from the
// studio database on a fixed interval.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/services/auth/oauth"
	authsqlite "github.com/louisbranch/atelier.studio/internal/services/auth/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
)

// RuntimeConfig controls worker startup and loop behavior.
type RuntimeConfig struct {
	StudioDBPath       string
	AuthDBPath         string
	Interval           time.Duration
	TelemetryRetention time.Duration
}

const (
	defaultStudioDB           = "data/studio.db"
	defaultAuthDB             = "data/auth.db"
	defaultInterval           = 5 * time.Minute
	defaultTelemetryRetention = 90 * 24 * time.Hour
)

// telemetryTrimmer deletes activity events older than a cutoff.
type telemetryTrimmer interface {
	TrimTelemetryEvents(ctx context.Context, before time.Time) (int64, error)
}

// expiryCleaner purges expired OAuth tokens, codes, and pending logins.
type expiryCleaner interface {
	CleanupExpired(now time.Time)
}

// Janitor runs the maintenance passes.
type Janitor struct {
	telemetry telemetryTrimmer
	oauth     expiryCleaner
	retention time.Duration
	clock     func() time.Time
	logf      func(format string, args ...any)
}

// NewJanitor wires a janitor over the two stores it maintains.
func NewJanitor(telemetry telemetryTrimmer, oauth expiryCleaner, retention time.Duration) *Janitor {
	if retention <= 0 {
		retention = defaultTelemetryRetention
	}
	return &Janitor{
		telemetry: telemetry,
		oauth:     oauth,
		retention: retention,
		clock:     time.Now,
		logf:      log.Printf,
	}
}

// Sweep runs one maintenance pass.
func (j *Janitor) Sweep(ctx context.Context) {
	now := j.clock().UTC()
	if j.oauth != nil {
		j.oauth.CleanupExpired(now)
	}
	if j.telemetry != nil {
		trimmed, err := j.telemetry.TrimTelemetryEvents(ctx, now.Add(-j.retention))
		if err != nil {
			j.logf("trim activity events: %v", err)
		} else if trimmed > 0 {
			j.logf("trimmed %d activity events", trimmed)
		}
	}
}

// Loop sweeps immediately and then on every interval tick until ctx ends.
func (j *Janitor) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}
	j.Sweep(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Run opens both databases and blocks on the maintenance loop until the
// context ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.StudioDBPath) == "" {
		cfg.StudioDBPath = defaultStudioDB
	}
	if strings.TrimSpace(cfg.AuthDBPath) == "" {
		cfg.AuthDBPath = defaultAuthDB
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	for _, path := range []string{cfg.StudioDBPath, cfg.AuthDBPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create data directory %s: %w", dir, err)
			}
		}
	}

	studioStore, err := sqlite.Open(cfg.StudioDBPath)
	if err != nil {
		return fmt.Errorf("open studio store: %w", err)
	}
	defer func() {
		if closeErr := studioStore.Close(); closeErr != nil {
			log.Printf("close studio store: %v", closeErr)
		}
	}()

	authStore, err := authsqlite.Open(cfg.AuthDBPath)
	if err != nil {
		return fmt.Errorf("open auth store: %w", err)
	}
	defer func() {
		if closeErr := authStore.Close(); closeErr != nil {
			log.Printf("close auth store: %v", closeErr)
		}
	}()

	janitor := NewJanitor(studioStore, oauth.NewStore(authStore.DB()), cfg.TelemetryRetention)
	log.Printf("worker sweeping every %s, keeping activity for %s", cfg.Interval, janitor.retention)
	janitor.Loop(ctx, cfg.Interval)
	return nil
}
