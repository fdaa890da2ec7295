package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"DemandCast/internal/catalog"
	"DemandCast/internal/domain/models"
	"DemandCast/internal/domain/repository"
	"DemandCast/internal/gateway"
	"DemandCast/internal/store"
	"DemandCast/internal/toast"
	"DemandCast/pkg/cache"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
)

// ErrIncompleteSelection is returned when a forecast is triggered without
// city, category and product all set. No network call is made.
var ErrIncompleteSelection = errors.New("forecast: city, category and product are required")

// HistoryLimit is the default cap on the recent-forecast list.
const HistoryLimit = 6

// Workflow turns a filter selection into a forecast, deduplicating identical
// requests through the durable cache and maintaining the last-result slot
// and the bounded recent-history list.
type Workflow struct {
	api     *gateway.Client
	store   cache.Service
	toasts  *toast.Notifier
	metrics repository.Metrics
	log     *applogger.Logger

	historyLimit int
	cacheTTL     time.Duration

	mu      sync.RWMutex
	current *models.ForecastResult
	history []models.ForecastResult
}

// NewWorkflow creates the forecast workflow over the durable store.
func NewWorkflow(
	api *gateway.Client,
	durable cache.Service,
	toasts *toast.Notifier,
	metrics repository.Metrics,
	historyLimit int,
	cacheTTL time.Duration,
	log *applogger.Logger,
) *Workflow {
	if historyLimit <= 0 {
		historyLimit = HistoryLimit
	}
	return &Workflow{
		api:          api,
		store:        durable,
		toasts:       toasts,
		metrics:      metrics,
		log:          log,
		historyLimit: historyLimit,
		cacheTTL:     cacheTTL,
	}
}

// Run executes one forecast invocation: validate, check the cache, and only
// then call the backend. Returns the result and whether it came from cache.
func (w *Workflow) Run(ctx context.Context, sel catalog.Selection) (*models.ForecastResult, bool, error) {
	// Validating
	if !sel.Complete() {
		w.toasts.Notify("Select a city, category and product before running a forecast", models.SeverityWarning)
		w.metrics.RecordForecast("invalid")
		return nil, false, ErrIncompleteSelection
	}

	req := sel.Request()
	key := CacheKey(req)

	// CacheCheck
	cached, err := cache.GetTyped[models.ForecastResult](ctx, w.store, key)
	switch {
	case err == nil:
		w.setCurrent(&cached)
		w.toasts.Notify("Forecast loaded from cache", models.SeverityInfo)
		w.metrics.RecordCacheEvent("hit")
		w.metrics.RecordForecast("cached")
		return &cached, true, nil
	case errors.Is(err, cache.ErrCacheMiss):
		w.metrics.RecordCacheEvent("miss")
	default:
		// Entry exists but no longer parses; evict it and fall through to
		// the network.
		w.log.Warn("evicting corrupt cache entry", applogger.String("key", key), applogger.Error(err))
		_ = w.store.Delete(ctx, key)
		w.metrics.RecordCacheEvent("evict")
	}

	// Requesting
	start := time.Now()
	res := w.api.Do(ctx, "/train/predict", &gateway.Options{Body: &req})
	w.metrics.RecordLatency("forecast", time.Since(start).Seconds())

	if !res.Ok() {
		msg := res.DetailMessage("Failed to generate forecast")
		w.toasts.Notify(msg, models.SeverityError)
		w.metrics.RecordForecast("failed")
		return nil, false, fmt.Errorf("forecast request failed: %s", msg)
	}

	var result models.ForecastResult
	if err := res.Decode(&result); err != nil {
		w.toasts.Notify("Failed to generate forecast", models.SeverityError)
		w.metrics.RecordForecast("failed")
		return nil, false, fmt.Errorf("decode forecast response: %w", err)
	}

	// Loaded: cache under the canonical key, overwrite the last-result
	// slot, prepend to the bounded history. Ordering matters to the durable
	// state; partial failures are logged and tolerated.
	if err := w.store.Set(ctx, key, &result, w.cacheTTL); err != nil {
		w.log.Warn("forecast cache write failed", applogger.Error(err))
	}
	if err := w.store.Set(ctx, store.KeyLastForecast, &result, 0); err != nil {
		w.log.Warn("last-result persist failed", applogger.Error(err))
	}
	w.prependHistory(ctx, result)

	w.setCurrent(&result)
	w.toasts.Notify("Forecast generated successfully!", models.SeveritySuccess)
	w.metrics.RecordForecast("fetched")
	return &result, false, nil
}

// Current returns the active result, nil while Idle.
func (w *Workflow) Current() *models.ForecastResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// History returns the recent results, most-recent first.
func (w *Workflow) History() []models.ForecastResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.ForecastResult(nil), w.history...)
}

// Open returns one history entry for read-only inspection. It touches
// neither the cache nor the active selection.
func (w *Workflow) Open(i int) (*models.ForecastResult, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if i < 0 || i >= len(w.history) {
		return nil, xhttp.NotFoundError(fmt.Sprintf("no recent forecast at position %d", i+1))
	}
	entry := w.history[i]
	return &entry, nil
}

// Rehydrate restores the last result and the recent-history list from
// durable storage at startup. Corrupt slots are discarded silently. Returns
// the restored result so the caller can back-fill the filter selection.
func (w *Workflow) Rehydrate(ctx context.Context) *models.ForecastResult {
	last, err := cache.GetTyped[models.ForecastResult](ctx, w.store, store.KeyLastForecast)
	switch {
	case err == nil && len(last.Predictions) > 0:
		w.setCurrent(&last)
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		_ = w.store.Delete(ctx, store.KeyLastForecast)
	}

	history, herr := cache.GetTyped[[]models.ForecastResult](ctx, w.store, store.KeyRecentForecasts)
	switch {
	case herr == nil:
		if len(history) > w.historyLimit {
			history = history[:w.historyLimit]
		}
		w.mu.Lock()
		w.history = history
		w.mu.Unlock()
	case !errors.Is(herr, cache.ErrCacheMiss):
		_ = w.store.Delete(ctx, store.KeyRecentForecasts)
	}

	return w.Current()
}

// prependHistory pushes the result onto the front of the bounded list and
// persists it. Repeat forecasts produce duplicate entries on purpose.
func (w *Workflow) prependHistory(ctx context.Context, result models.ForecastResult) {
	w.mu.Lock()
	w.history = append([]models.ForecastResult{result}, w.history...)
	if len(w.history) > w.historyLimit {
		w.history = w.history[:w.historyLimit]
	}
	snapshot := append([]models.ForecastResult(nil), w.history...)
	w.mu.Unlock()

	if err := w.store.Set(ctx, store.KeyRecentForecasts, snapshot, 0); err != nil {
		w.log.Warn("history persist failed", applogger.Error(err))
	}
}

func (w *Workflow) setCurrent(r *models.ForecastResult) {
	w.mu.Lock()
	w.current = r
	w.mu.Unlock()
}
