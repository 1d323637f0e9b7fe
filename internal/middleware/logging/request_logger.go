package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/product_service/internal/logging"
)

type Config struct {
	Logger  *slog.Logger
	Skipper echomw.Skipper
}

// SkipHealth keeps liveness and readiness checks out of the request log.
func SkipHealth(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/health/")
}

// RequestLoggerWithConfig puts a request-scoped logger into the request
// context and writes one line per finished request. Errors returned by the
// chain are rendered here through the echo error handler so the logged status
// is the one the client sees.
func RequestLoggerWithConfig(cfg Config) echo.MiddlewareFunc {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Skipper == nil {
		cfg.Skipper = echomw.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := cfg.Logger.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			if cfg.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// the auth gate may have enriched the context logger with the caller
			done := logging.FromContext(c.Request().Context())
			status := c.Response().Status
			attrs := []any{"status", status, "duration_ms", time.Since(start).Milliseconds()}

			switch {
			case status >= 500:
				done.Error("request completed", append(attrs, "error", err)...)
			case status >= 400:
				done.Warn("request completed", attrs...)
			default:
				done.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
