package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DemandCast/internal/catalog"
	"DemandCast/internal/domain/models"
	"DemandCast/internal/domain/repository"
	"DemandCast/internal/forecast"
	"DemandCast/internal/gateway"
	"DemandCast/internal/session"
	"DemandCast/internal/store"
	"DemandCast/internal/toast"
	"DemandCast/pkg/cache"
	applogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noToken struct{}

func (noToken) Token() string { return "" }

func newTestHandler(t *testing.T) (*StateHandler, *echo.Echo) {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	durable := cache.NewMemoryCache()
	t.Cleanup(func() { durable.Close() })

	result := models.ForecastResult{
		City:            "Mumbai",
		Product:         "Wireless Mouse",
		ProductCategory: "Electronics",
		Predictions:     []models.Prediction{{Date: "2026-09-01", PredictedQuantitySold: 9}},
	}
	ctx := context.Background()
	require.NoError(t, durable.Set(ctx, store.KeyLastForecast, &result, 0))
	require.NoError(t, durable.Set(ctx, store.KeyRecentForecasts, []models.ForecastResult{result}, 0))

	toasts := toast.NewNotifier(repository.NoopMetrics{}, toast.WithDelay(time.Hour))
	t.Cleanup(toasts.Close)

	api := gateway.New("http://127.0.0.1:1", time.Second, noToken{}, repository.NoopMetrics{}, log)
	flow := forecast.NewWorkflow(api, durable, toasts, repository.NoopMetrics{}, 6, 0, log)
	flow.Rehydrate(ctx)

	h := NewStateHandler(
		log,
		session.NewManager(durable, log),
		catalog.NewLoader(api, 30, log),
		flow,
		toasts,
	)

	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func TestHistoryEntryReturnsSlot(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/history/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":200`)
	assert.Contains(t, rec.Body.String(), "Wireless Mouse")
}

func TestHistoryEntryOutOfRange(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/history/9", nil))

	assert.Contains(t, rec.Body.String(), `"status":404`)
}

func TestHistoryEntryRejectsBadPosition(t *testing.T) {
	_, e := newTestHandler(t)

	for _, pos := range []string{"zero", "0", "-3"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/history/"+pos, nil))
		assert.Contains(t, rec.Body.String(), `"status":404`, "position %q must not be treated as a slot", pos)
	}
}

func TestStateReflectsRehydratedForecast(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"history_count":1`)
	assert.Contains(t, rec.Body.String(), "Mumbai")
}
