package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsBackend(t *testing.T) {
	tests := []struct {
		format string
		logrus bool
	}{
		{FormatJSON, false},
		{FormatText, false},
		{"", false},
		{"yaml", false},
		{FormatLogrusJSON, true},
		{FormatLogrusText, true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			l := New(tt.format, "info", &bytes.Buffer{})
			_, isLogrus := l.(*LogrusLogger)
			_, isSlog := l.(*SlogLogger)
			assert.Equal(t, tt.logrus, isLogrus)
			assert.Equal(t, !tt.logrus, isSlog)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := slogLevel(in); got != want {
			t.Fatalf("slogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_SlogJSON_ModuleAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatJSON, "info", &buf).With("module", "ledger")

	log.Info(context.Background(), "entry appended", "job_id", "j-9", "seq", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "entry appended", rec["msg"])
	assert.Equal(t, "ledger", rec["module"])
	assert.Equal(t, "j-9", rec["job_id"])
	assert.Equal(t, float64(3), rec["seq"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestNew_SlogText_NestedWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatText, "debug", &buf).With("module", "orchestrator").With("job_id", "j-1")

	log.Debug(context.Background(), "task started", "device_id", "sim-0001")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", `msg="task started"`, "module=orchestrator", "job_id=j-1", "device_id=sim-0001"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNew_SlogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatJSON, "error", &buf)
	ctx := context.Background()

	log.Debug(ctx, "d")
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "certificate archive failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "certificate archive failed")
}
