// Package server parses server command flags and runs the combined site,
// dashboard, and proxy API process.
package server

import (
	"context"
	"flag"
	"strings"

	"github.com/louisbranch/atelier.studio/internal/services/server/admin"
	"github.com/louisbranch/atelier.studio/internal/services/server/app"
)

// Config holds server command configuration.
type Config struct {
	HTTPAddr       string
	DBPath         string
	AuthURL        string
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	ResourceSecret string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr:       envOrDefault(lookup, "ATELIER_STUDIO_SERVER_HTTP_ADDR", "localhost:8080"),
		DBPath:         envOrDefault(lookup, "ATELIER_STUDIO_DB_PATH", "data/studio.db"),
		AuthURL:        envOrDefault(lookup, "ATELIER_STUDIO_AUTH_URL", "http://localhost:8084"),
		ClientID:       envOrDefault(lookup, "ATELIER_STUDIO_OAUTH_CLIENT_ID", "studio-admin"),
		ClientSecret:   envOrDefault(lookup, "ATELIER_STUDIO_OAUTH_CLIENT_SECRET", ""),
		RedirectURL:    envOrDefault(lookup, "ATELIER_STUDIO_OAUTH_REDIRECT_URL", "http://localhost:8080/admin/oauth/callback"),
		ResourceSecret: envOrDefault(lookup, "ATELIER_STUDIO_RESOURCE_SECRET", ""),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the studio SQLite database")
	fs.StringVar(&cfg.AuthURL, "auth-url", cfg.AuthURL, "Base URL of the auth service")
	fs.StringVar(&cfg.ClientID, "oauth-client-id", cfg.ClientID, "OAuth client ID for the admin dashboard")
	fs.StringVar(&cfg.ClientSecret, "oauth-client-secret", cfg.ClientSecret, "OAuth client secret for the admin dashboard")
	fs.StringVar(&cfg.RedirectURL, "oauth-redirect-url", cfg.RedirectURL, "OAuth callback URL as seen by browsers")
	fs.StringVar(&cfg.ResourceSecret, "resource-secret", cfg.ResourceSecret, "Shared secret for token introspection")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the combined server.
func Run(ctx context.Context, cfg Config) error {
	return app.Run(ctx, app.Config{
		HTTPAddr: cfg.HTTPAddr,
		DBPath:   cfg.DBPath,
		Admin: admin.Config{
			AuthURL:        cfg.AuthURL,
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			RedirectURL:    cfg.RedirectURL,
			ResourceSecret: cfg.ResourceSecret,
		},
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
