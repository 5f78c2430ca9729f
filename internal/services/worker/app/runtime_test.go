package app

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type fakeTrimmer struct {
	before  time.Time
	trimmed int64
	err     error
	calls   int
}

func (f *fakeTrimmer) TrimTelemetryEvents(_ context.Context, before time.Time) (int64, error) {
	f.calls++
	f.before = before
	return f.trimmed, f.err
}

type fakeCleaner struct {
	calls int
	now   time.Time
}

func (f *fakeCleaner) CleanupExpired(now time.Time) {
	f.calls++
	f.now = now
}

func TestJanitorSweep(t *testing.T) {
	trimmer := &fakeTrimmer{trimmed: 3}
	cleaner := &fakeCleaner{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	janitor := NewJanitor(trimmer, cleaner, 24*time.Hour)
	janitor.clock = func() time.Time { return now }
	var logged []string
	janitor.logf = func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	janitor.Sweep(context.Background())

	if cleaner.calls != 1 {
		t.Fatalf("expected 1 cleanup call, got %d", cleaner.calls)
	}
	if !cleaner.now.Equal(now) {
		t.Fatalf("expected cleanup at %v, got %v", now, cleaner.now)
	}
	if trimmer.calls != 1 {
		t.Fatalf("expected 1 trim call, got %d", trimmer.calls)
	}
	wantCutoff := now.Add(-24 * time.Hour)
	if !trimmer.before.Equal(wantCutoff) {
		t.Fatalf("expected cutoff %v, got %v", wantCutoff, trimmer.before)
	}
	if len(logged) != 1 || logged[0] != "trimmed 3 activity events" {
		t.Fatalf("unexpected log output %v", logged)
	}
}

func TestJanitorSweepTrimError(t *testing.T) {
	trimmer := &fakeTrimmer{err: fmt.Errorf("disk full")}
	janitor := NewJanitor(trimmer, nil, 0)
	var logged []string
	janitor.logf = func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	janitor.Sweep(context.Background())

	if len(logged) != 1 {
		t.Fatalf("expected one log line, got %v", logged)
	}
}

func TestNewJanitorDefaultRetention(t *testing.T) {
	janitor := NewJanitor(nil, nil, 0)
	if janitor.retention != defaultTelemetryRetention {
		t.Fatalf("expected default retention, got %v", janitor.retention)
	}
}

type signalTrimmer struct {
	swept chan struct{}
}

func (s *signalTrimmer) TrimTelemetryEvents(context.Context, time.Time) (int64, error) {
	select {
	case s.swept <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestJanitorLoopStopsOnCancel(t *testing.T) {
	trimmer := &signalTrimmer{swept: make(chan struct{}, 1)}
	janitor := NewJanitor(trimmer, nil, time.Hour)
	janitor.logf = func(string, ...any) {}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Loop(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-trimmer.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("initial sweep never ran")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}
