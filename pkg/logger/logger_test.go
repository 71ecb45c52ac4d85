package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_AddsContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelInfo}, &buf,
		logger.ContextIDExtractor(), logger.ReferenceExtractor(), nil)

	ctx := logger.WithContextID(context.Background(), "ctx-1")
	ctx = logger.WithReference(ctx, "CH-000123")
	log.InfoContext(ctx, "letter sent", slog.String("postage", "second"))

	rec := decode(t, &buf)
	require.Equal(t, "letter sent", rec["msg"])
	require.Equal(t, "ctx-1", rec[logger.ContextIDKey])
	require.Equal(t, "CH-000123", rec[logger.ReferenceKey])
	require.Equal(t, "second", rec["postage"])
}

func TestNew_SkipsAbsentValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{}, &buf, logger.ContextIDExtractor(), logger.ReferenceExtractor())
	log.With(slog.String("component", "dispatch")).InfoContext(context.Background(), "hello")

	rec := decode(t, &buf)
	require.NotContains(t, rec, logger.ContextIDKey)
	require.NotContains(t, rec, logger.ReferenceKey)
	require.Equal(t, "dispatch", rec["component"])
}

func TestNew_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelWarn, Format: "text"}, &buf)
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept")
	require.True(t, strings.Contains(buf.String(), "msg=kept"), buf.String())
}

func TestContextAccessors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.Empty(t, logger.ContextID(ctx))
	require.Empty(t, logger.Reference(ctx))

	ctx = logger.WithReference(logger.WithContextID(ctx, "id"), "ref")
	require.Equal(t, "id", logger.ContextID(ctx))
	require.Equal(t, "ref", logger.Reference(ctx))
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{}, &buf, logger.ReferenceExtractor())
	log.ErrorContext(logger.WithReference(context.Background(), "r-1"), "boom", slog.Any("error", errors.New("x")))

	rec := decode(t, &buf)
	require.Equal(t, "r-1", rec["reference"])
	require.Equal(t, "ERROR", rec["level"])
}

func TestNopeDiscards(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	log.Error("nothing happens")
}
