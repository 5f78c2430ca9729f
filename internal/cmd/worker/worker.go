// Package worker wires configuration and startup for the maintenance worker.
package worker

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/services/worker/app"
)

// Config holds worker command configuration.
type Config struct {
	StudioDBPath       string
	AuthDBPath         string
	Interval           time.Duration
	TelemetryRetention time.Duration
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	interval, err := envDuration(lookup, "ATELIER_STUDIO_WORKER_INTERVAL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	retention, err := envDuration(lookup, "ATELIER_STUDIO_WORKER_ACTIVITY_RETENTION", 90*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		StudioDBPath:       envOrDefault(lookup, "ATELIER_STUDIO_DB_PATH", "data/studio.db"),
		AuthDBPath:         envOrDefault(lookup, "ATELIER_STUDIO_AUTH_DB_PATH", "data/auth.db"),
		Interval:           interval,
		TelemetryRetention: retention,
	}

	fs.StringVar(&cfg.StudioDBPath, "db-path", cfg.StudioDBPath, "Path to the studio SQLite database")
	fs.StringVar(&cfg.AuthDBPath, "auth-db-path", cfg.AuthDBPath, "Path to the auth SQLite database")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Time between maintenance sweeps")
	fs.DurationVar(&cfg.TelemetryRetention, "activity-retention", cfg.TelemetryRetention, "How long to keep activity events")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the maintenance worker.
func Run(ctx context.Context, cfg Config) error {
	return app.Run(ctx, app.RuntimeConfig{
		StudioDBPath:       cfg.StudioDBPath,
		AuthDBPath:         cfg.AuthDBPath,
		Interval:           cfg.Interval,
		TelemetryRetention: cfg.TelemetryRetention,
	})
}

func envOrDefault(lookup EnvLookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	if value, ok := lookup(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envDuration(lookup EnvLookup, key string, fallback time.Duration) (time.Duration, error) {
	raw := envOrDefault(lookup, key, "")
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
