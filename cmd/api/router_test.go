package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/pkg/cache"
)

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck(context.Context) error { return f.err }

func serveHealth(t *testing.T, db healthChecker) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", healthCheckHandler(db, cache.NewMemoryCache(), "1.2.3"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheckOK(t *testing.T) {
	code, body := serveHealth(t, fakeDB{})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	services := body["services"].(map[string]any)
	assert.Equal(t, "ok", services["database"])
	assert.Equal(t, "ok", services["cache"])
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	code, body := serveHealth(t, fakeDB{err: errors.New("connection refused")})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	services := body["services"].(map[string]any)
	assert.Equal(t, "error: connection refused", services["database"])
}

func TestRequireAdminWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/x", requireAdmin(false), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
