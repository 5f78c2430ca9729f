package server

import (
	"flag"
	"testing"
)

func lookupFrom(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Errorf("HTTPAddr = %q, want localhost:8080", cfg.HTTPAddr)
	}
	if cfg.DBPath != "data/studio.db" {
		t.Errorf("DBPath = %q, want data/studio.db", cfg.DBPath)
	}
	if cfg.AuthURL != "http://localhost:8084" {
		t.Errorf("AuthURL = %q, want http://localhost:8084", cfg.AuthURL)
	}
	if cfg.ClientID != "studio-admin" {
		t.Errorf("ClientID = %q, want studio-admin", cfg.ClientID)
	}
}

func TestParseConfigEnvOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, lookupFrom(map[string]string{
		"ATELIER_STUDIO_SERVER_HTTP_ADDR": "0.0.0.0:9000",
		"ATELIER_STUDIO_AUTH_URL":         "https://auth.example.com",
		"ATELIER_STUDIO_RESOURCE_SECRET":  "hunter2",
	}))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("HTTPAddr = %q, want 0.0.0.0:9000", cfg.HTTPAddr)
	}
	if cfg.AuthURL != "https://auth.example.com" {
		t.Errorf("AuthURL = %q, want https://auth.example.com", cfg.AuthURL)
	}
	if cfg.ResourceSecret != "hunter2" {
		t.Errorf("ResourceSecret = %q, want hunter2", cfg.ResourceSecret)
	}
}

func TestParseConfigFlagsBeatEnv(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "localhost:7000"}, lookupFrom(map[string]string{
		"ATELIER_STUDIO_SERVER_HTTP_ADDR": "0.0.0.0:9000",
	}))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HTTPAddr != "localhost:7000" {
		t.Errorf("HTTPAddr = %q, want localhost:7000", cfg.HTTPAddr)
	}
}
