package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestLevels(t *testing.T) {
	ctx := context.Background()
	log, buf := newBufferLogger(slog.LevelDebug)

	log.Debug(ctx, "debug msg")
	log.Info(ctx, "info msg", "key", "value")
	log.Warn(ctx, "warn msg")
	log.Error(ctx, "error msg")

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
}

func TestLevelFiltering(t *testing.T) {
	ctx := context.Background()
	log, buf := newBufferLogger(slog.LevelWarn)

	log.Info(ctx, "hidden")
	log.Warn(ctx, "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestWith(t *testing.T) {
	ctx := context.Background()
	log, buf := newBufferLogger(slog.LevelInfo)

	log.With("component", "api").Info(ctx, "ready")
	assert.Contains(t, buf.String(), "component=api")
}

func TestNewDefaultImplementsLogger(t *testing.T) {
	var _ Logger = NewDefault(slog.LevelInfo)
}
