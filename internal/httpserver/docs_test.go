package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIDocsPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api-docs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
	assert.Contains(t, rec.Body.String(), "/api-docs/openapi.json")

	rec = env.do(http.MethodGet, "/api-docs/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIDocsCoverEveryRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api-docs/openapi.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)

	var doc struct {
		OpenAPI string                                `json:"openapi"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.0", doc.OpenAPI)

	documented := 0
	for _, r := range env.E.Routes() {
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		if strings.HasPrefix(r.Path, "/api-docs") {
			continue
		}

		path := strings.ReplaceAll(r.Path, ":id", "{id}")
		ops, ok := doc.Paths[path]
		require.True(t, ok, "path %s is not documented", path)
		_, ok = ops[strings.ToLower(r.Method)]
		assert.True(t, ok, "%s %s is not documented", r.Method, path)
		documented++
	}
	assert.Equal(t, 10, documented)
}
