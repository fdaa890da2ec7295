package middleware

import (
	"time"

	applogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// scrape endpoints poll continuously and would drown the request log.
var quietPaths = map[string]bool{
	"/metrics": true,
	"/healthz": true,
}

// RequestLogging logs each debug request with its status and latency.
func RequestLogging(log *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			if quietPaths[req.URL.Path] {
				return err
			}

			log.Info("debug request",
				applogger.String("method", req.Method),
				applogger.String("path", req.RequestURI),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}
