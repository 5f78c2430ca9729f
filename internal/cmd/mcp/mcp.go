// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"strings"

	"github.com/louisbranch/atelier.studio/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string
	HTTPAddr  string
	Transport string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		DBPath:    envOrDefault(lookup, "ATELIER_STUDIO_DB_PATH", "data/studio.db"),
		HTTPAddr:  envOrDefault(lookup, "ATELIER_STUDIO_MCP_HTTP_ADDR", "localhost:8085"),
		Transport: envOrDefault(lookup, "ATELIER_STUDIO_MCP_TRANSPORT", "stdio"),
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the studio SQLite database")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return service.Run(ctx, service.Config{
		DBPath:    cfg.DBPath,
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
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
