package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level slog.Level) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "login rejected", "reason", "invalid_credentials")
	log.Info(ctx, "identity registered", "role", "submitter")
	log.Warn(ctx, "account locked", "failures", 5)
	log.Error(ctx, "record attempt", "error", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	want := []string{
		`level=DEBUG msg="login rejected" reason=invalid_credentials`,
		`level=INFO msg="identity registered" role=submitter`,
		`level=WARN msg="account locked" failures=5`,
		`level=ERROR msg="record attempt" error=boom`,
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Fatalf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
}

func TestSlogLogger_HandlerLevelFilters(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelWarn)
	ctx := context.Background()

	log.Debug(ctx, "dropped")
	log.Info(ctx, "dropped")
	log.Warn(ctx, "kept")

	if out := buf.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSlogLogger_WithScopesChild(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelInfo)
	ctx := context.Background()

	log.With("module", "auth_service").Info(ctx, "child")
	log.Info(ctx, "parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], "module=auth_service") {
		t.Fatalf("child line lacks module: %q", lines[0])
	}
	if strings.Contains(lines[1], "module=") {
		t.Fatalf("With must not change the parent: %q", lines[1])
	}
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	NewSlogLogger(nil).Info(context.Background(), "via default", "k", "v")

	if out := buf.String(); !strings.Contains(out, `msg="via default"`) || !strings.Contains(out, "k=v") {
		t.Fatalf("nil logger must write through slog.Default, got:\n%s", out)
	}
}
