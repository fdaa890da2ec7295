package di

import (
	"fmt"
	"time"

	"DemandCast/internal/catalog"
	"DemandCast/internal/domain/repository"
	"DemandCast/internal/forecast"
	"DemandCast/internal/gateway"
	"DemandCast/internal/handler/api"
	"DemandCast/internal/insights"
	"DemandCast/internal/session"
	"DemandCast/internal/toast"
	"DemandCast/internal/upload"
	"DemandCast/pkg/cache"
	"DemandCast/pkg/config"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
	"DemandCast/pkg/metrics"
	"DemandCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDurableStore builds the persistent key-value store behind all
// client state, selected by cache.backend.
func ProvideDurableStore(cfg *config.Config) (cache.Service, error) {
	file, err := cache.NewFileCache(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}

	switch cfg.Cache.Backend {
	case "file":
		return file, nil
	case "redis":
		return provideRedis(cfg)
	case "layered":
		return cache.NewLayeredCache(file,
			cache.WithLayeredMemorySize(1000),
			cache.WithLayeredMemoryCleanup(5*time.Minute),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func provideRedis(cfg *config.Config) (cache.Service, error) {
	r, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(10, 5, 30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	return r, nil
}

// ProvideNotifier creates the toast queue with console rendering.
func ProvideNotifier(m repository.Metrics) *toast.Notifier {
	return toast.NewNotifier(m, toast.WithSink(server.ConsoleSink))
}

// ProvideSessionManager creates the session manager over the durable store.
func ProvideSessionManager(store cache.Service, log *applogger.Logger) *session.Manager {
	return session.NewManager(store, log)
}

// ProvideGateway creates the backend client. The session manager is both the
// token source for outgoing requests and a consumer of the gateway for auth
// calls, so the back-reference is set here.
func ProvideGateway(
	cfg *config.Config,
	sessions *session.Manager,
	m repository.Metrics,
	log *applogger.Logger,
) *gateway.Client {
	api := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, m, log)
	sessions.SetGateway(api)
	return api
}

// ProvideCatalogLoader creates the feature catalog loader.
func ProvideCatalogLoader(api *gateway.Client, cfg *config.Config, log *applogger.Logger) *catalog.Loader {
	return catalog.NewLoader(api, cfg.Forecast.DefaultDays, log)
}

// ProvideWorkflow creates the forecast workflow.
func ProvideWorkflow(
	api *gateway.Client,
	store cache.Service,
	toasts *toast.Notifier,
	m repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *forecast.Workflow {
	return forecast.NewWorkflow(api, store, toasts, m, cfg.Forecast.HistoryLimit, cfg.Cache.TTL, log)
}

// ProvideInsights creates the insights service.
func ProvideInsights(api *gateway.Client, log *applogger.Logger) *insights.Service {
	return insights.NewService(api, log)
}

// ProvideUploader creates the dataset uploader.
func ProvideUploader(api *gateway.Client, toasts *toast.Notifier, log *applogger.Logger) *upload.Uploader {
	return upload.NewUploader(api, toasts, log)
}

// ProvideStateHandler creates the debug route handler.
func ProvideStateHandler(
	log *applogger.Logger,
	sessions *session.Manager,
	loader *catalog.Loader,
	flow *forecast.Workflow,
	toasts *toast.Notifier,
) xhttp.Handler {
	return api.NewStateHandler(log, sessions, loader, flow, toasts)
}

// ProvideApp creates the application shell.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	store cache.Service,
	sessions *session.Manager,
	loader *catalog.Loader,
	flow *forecast.Workflow,
	reports *insights.Service,
	uploader *upload.Uploader,
	toasts *toast.Notifier,
	handler xhttp.Handler,
) *server.App {
	app := server.New(cfg, log, store, sessions, loader, flow, reports, uploader, toasts)
	app.SetHTTPHandler(handler)
	return app
}
