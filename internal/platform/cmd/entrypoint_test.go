package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfigNilTarget(t *testing.T) {
	if err := ParseConfig[struct{}](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseArgsNilFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	t.Setenv("ATELIER_STUDIO_ENTRYPOINT_TEST_ADDR", "env-addr")

	type cfg struct {
		Addr string `env:"ATELIER_STUDIO_ENTRYPOINT_TEST_ADDR"`
		Port int
	}
	var parsed cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.IntVar(&parsed.Port, "port", 8080, "port")
	if err := ParseConfigFromArgs(&parsed, fs, []string{"-port", "9001"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Addr != "env-addr" {
		t.Fatalf("Addr = %q, want env value", parsed.Addr)
	}
	if parsed.Port != 9001 {
		t.Fatalf("Port = %d, want 9001", parsed.Port)
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for blank service name")
	}
}

func TestRunWithTelemetryRequiresRun(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "server", nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("ATELIER_STUDIO_OTEL_ENDPOINT", "")

	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), "server", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
