package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"tubewatch/internal/logging"
	"tubewatch/internal/services"
)

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithCycleID(context.Background(), "cycle-123")
	ctx = services.WithVideoID(ctx, "abc123")

	logging.WithContext(ctx, logger).Info("processing")

	out := buf.String()
	if !strings.Contains(out, `"cycle_id":"cycle-123"`) {
		t.Fatalf("missing cycle id in %q", out)
	}
	if !strings.Contains(out, `"video_id":"abc123"`) {
		t.Fatalf("missing video id in %q", out)
	}
}

func TestWithContextNoFieldsReturnsSameLogger(t *testing.T) {
	logger := logging.NewNop()
	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the original logger when no correlation fields are present")
	}
}

func TestWithContextNilLogger(t *testing.T) {
	ctx := services.WithCycleID(context.Background(), "c1")
	logger := logging.WithContext(ctx, nil)
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
	logger.Info("must not panic")
}
