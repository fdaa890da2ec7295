package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"DemandCast/internal/catalog"
	"DemandCast/internal/domain/models"
	"DemandCast/internal/forecast"
	"DemandCast/internal/insights"
	"DemandCast/internal/session"
	"DemandCast/internal/toast"
	"DemandCast/internal/upload"
	"DemandCast/pkg/cache"
	"DemandCast/pkg/config"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
)

// App encapsulates the entire client lifecycle: durable state rehydration,
// the optional debug listener, and the interactive command loop.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	store    cache.Service
	sessions *session.Manager
	catalog  *catalog.Loader
	flow     *forecast.Workflow
	insights *insights.Service
	uploader *upload.Uploader
	toasts   *toast.Notifier

	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	store cache.Service,
	sessions *session.Manager,
	loader *catalog.Loader,
	flow *forecast.Workflow,
	reports *insights.Service,
	uploader *upload.Uploader,
	toasts *toast.Notifier,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		store:    store,
		sessions: sessions,
		catalog:  loader,
		flow:     flow,
		insights: reports,
		uploader: uploader,
		toasts:   toasts,
	}
}

// SetHTTPHandler allows DI to inject the debug route handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the client. With command-line arguments it executes that single
// command and exits; otherwise it enters the interactive loop and blocks
// until quit or an interrupt.
func (a *App) Run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.rehydrate(ctx)

	if a.cfg.Debug.Enabled {
		a.httpServer = xhttp.NewServer(a.httpHandler, a.log,
			xhttp.WithHost(a.cfg.Debug.Host),
			xhttp.WithPort(a.cfg.Debug.Port),
			xhttp.WithTimeouts(a.cfg.Debug.ReadTimeout, a.cfg.Debug.WriteTimeout, a.cfg.Debug.ShutdownTimeout),
		)
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("debug server start error", applogger.Error(err))
			return err
		}
	}

	var err error
	if len(args) > 0 {
		err = a.execute(ctx, strings.Join(args, " "))
	} else {
		err = a.interact(ctx)
	}

	a.shutdown(ctx)
	return err
}

// rehydrate restores session and forecast state from durable storage before
// any command runs, then loads the feature catalog. A dead backend leaves
// the client usable with whatever state survived.
func (a *App) rehydrate(ctx context.Context) {
	if s := a.sessions.Resolve(ctx); s != nil {
		a.log.Info("session restored", applogger.String("email", s.User.Email))
	}

	if last := a.flow.Rehydrate(ctx); last != nil {
		sel := a.catalog.Selection()
		sel.City = last.City
		sel.Category = last.ProductCategory
		sel.Product = last.Product
		a.catalog.SetSelection(sel)
	}

	if err := a.catalog.Load(ctx); err != nil {
		a.log.Warn("feature catalog unavailable", applogger.Error(err))
		fmt.Println("Warning: could not load the feature catalog. Filter options are limited.")
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) {
	if a.httpServer != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Debug.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(stopCtx); err != nil {
			a.log.Warn("debug server shutdown error", applogger.Error(err))
		}
	}

	a.toasts.Close()
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close error", applogger.Error(err))
	}
	_ = ctx

	a.log.Info("shutdown complete")
}

// ConsoleSink renders toasts to stderr as they fire so notifications show up
// even mid-command.
func ConsoleSink(t models.Toast) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", t.Severity, t.Message)
}
