// Package seed parses seed command flags and loads demo content into the
// studio database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	seedsvc "github.com/louisbranch/atelier.studio/internal/services/seed"
	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string
	Force  bool
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		DBPath: envOrDefault(lookup, "ATELIER_STUDIO_DB_PATH", "data/studio.db"),
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the studio SQLite database")
	fs.BoolVar(&cfg.Force, "force", false, "Seed even when the database already has data")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the database, skipping databases that already hold data unless
// forced.
func Run(ctx context.Context, cfg Config) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open studio sqlite store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close studio store: %v", err)
		}
	}()

	svc := studio.NewService(store, telemetry.NewEmitter(store))
	if !cfg.Force {
		seeded, err := seedsvc.Seeded(ctx, svc)
		if err != nil {
			return err
		}
		if seeded {
			log.Printf("database already has data, skipping (use -force to seed anyway)")
			return nil
		}
	}

	if err := seedsvc.Seed(ctx, svc); err != nil {
		return err
	}
	log.Printf("seeded demo content into %s", cfg.DBPath)
	return nil
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
