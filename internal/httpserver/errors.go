package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_service/internal/logging"
	"github.com/Skotchmaster/product_service/internal/service"
	"github.com/Skotchmaster/product_service/internal/tokens"
	"github.com/Skotchmaster/product_service/internal/transport"
)

const msgInternal = "internal server error"

// statusFor is the single place service errors become HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "you are not the owner of this product"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, tokens.ErrInvalidToken):
		return http.StatusForbidden, "invalid or expired token"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func fail(l *slog.Logger, op string, err error) error {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(op+"_failed", "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(op+"_failed", "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		msg    string
	)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
		if status >= http.StatusInternalServerError && he.Internal != nil {
			logging.FromContext(c.Request().Context()).Error("internal_error", "error", he.Internal)
		}
	} else {
		status, msg = statusFor(err)
		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, transport.ErrorResponse{Error: msg})
}
