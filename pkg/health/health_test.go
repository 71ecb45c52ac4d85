package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/health"
)

func ok(context.Context) error { return nil }

func TestChecker_Run(t *testing.T) {
	t.Parallel()

	c := health.NewChecker(health.WithTimeout(50 * time.Millisecond))
	c.Add("postgres", ok)
	c.Add("queue", func(context.Context) error { return errors.New("queue not started") })
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	c.Add("panics", func(context.Context) error { panic("boom") })
	c.Add("ignored", nil)

	require.Equal(t, []string{"panics", "postgres", "queue", "slow"}, c.Names())

	report := c.Run(context.Background())
	require.False(t, report.Healthy())
	require.Equal(t, health.StatusHealthy, report.Checks["postgres"].Status)
	require.Equal(t, "queue not started", report.Checks["queue"].Error)
	require.Equal(t, health.ErrCheckTimeout.Error(), report.Checks["slow"].Error)
	require.Contains(t, report.Checks["panics"].Error, "boom")

	err := c.Check(context.Background())
	require.ErrorIs(t, err, health.ErrCheckFailed)
	require.Contains(t, err.Error(), "queue: queue not started")
}

func TestChecker_Empty(t *testing.T) {
	t.Parallel()

	c := health.NewChecker()
	require.True(t, c.Run(context.Background()).Healthy())
	require.NoError(t, c.Check(context.Background()))
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		c := health.NewChecker()
		c.Add("postgres", ok)

		rec := httptest.NewRecorder()
		c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("not ready json", func(t *testing.T) {
		t.Parallel()

		c := health.NewChecker()
		c.Add("postgres", func(context.Context) error { return errors.New("connection refused") })

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		c.ReadinessHandler()(rec, req)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Equal(t, "connection refused", report.Checks["postgres"].Error)
	})

	t.Run("not ready text", func(t *testing.T) {
		t.Parallel()

		c := health.NewChecker()
		c.Add("postgres", func(context.Context) error { return errors.New("down") })

		rec := httptest.NewRecorder()
		c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "Service Unavailable", rec.Body.String())
	})
}
