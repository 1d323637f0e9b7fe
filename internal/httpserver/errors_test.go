package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/product_service/internal/service"
	"github.com/Skotchmaster/product_service/internal/tokens"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrNotFound, want: http.StatusNotFound},
		{err: service.ErrForbidden, want: http.StatusForbidden},
		{err: service.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: bad sig", tokens.ErrInvalidToken), want: http.StatusForbidden},
		{err: fmt.Errorf("%w: name is required", service.ErrValidation), want: http.StatusBadRequest},
		{err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}

	_, msg := statusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, msgInternal, msg)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	ErrorHandler(echo.NewHTTPError(http.StatusForbidden, "nope"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ErrorHandler(errors.New("db exploded"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ErrorHandler(service.ErrNotFound, e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
