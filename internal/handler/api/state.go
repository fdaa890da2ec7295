package api

import (
	"strconv"
	"time"

	"DemandCast/internal/catalog"
	"DemandCast/internal/forecast"
	"DemandCast/internal/session"
	"DemandCast/internal/toast"
	xhttp "DemandCast/pkg/http"
	xlogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StateHandler exposes read-only introspection of the running client on the
// local debug listener: liveness, the signed-in user, the active filter
// selection and the forecast slots. Nothing here mutates state.
type StateHandler struct {
	logger   *xlogger.Logger
	sessions *session.Manager
	catalog  *catalog.Loader
	flow     *forecast.Workflow
	toasts   *toast.Notifier
	started  time.Time
}

func NewStateHandler(
	logger *xlogger.Logger,
	sessions *session.Manager,
	loader *catalog.Loader,
	flow *forecast.Workflow,
	toasts *toast.Notifier,
) *StateHandler {
	return &StateHandler{
		logger:   logger,
		sessions: sessions,
		catalog:  loader,
		flow:     flow,
		toasts:   toasts,
		started:  time.Now(),
	}
}

func (h *StateHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/debug")
	g.GET("/state", h.State)
	g.GET("/toasts", h.Toasts)
	g.GET("/history/:n", h.HistoryEntry)
}

func (h *StateHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

func (h *StateHandler) State(c echo.Context) error {
	state := map[string]interface{}{
		"selection":     h.catalog.Selection(),
		"history_count": len(h.flow.History()),
	}

	if s := h.sessions.Current(); s != nil {
		state["user"] = s.User
	}
	if cur := h.flow.Current(); cur != nil {
		state["current"] = map[string]interface{}{
			"city":             cur.City,
			"product":          cur.Product,
			"product_category": cur.ProductCategory,
			"days":             len(cur.Predictions),
			"total_predicted":  cur.TotalPredicted(),
		}
	}

	return xhttp.SuccessResponse(c, state)
}

func (h *StateHandler) Toasts(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.toasts.Active())
}

// HistoryEntry returns one forecast slot by its 1-based position.
func (h *StateHandler) HistoryEntry(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return xhttp.NotFoundResponse(c, "history position must be a positive number")
	}

	res, err := h.flow.Open(n - 1)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
