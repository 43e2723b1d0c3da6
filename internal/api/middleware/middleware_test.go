package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ames-casefile/internal/api/models"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/string", func(c *gin.Context) { panic("boom") })
	r.GET("/error", func(c *gin.Context) { panic(errors.New("broken")) })
	r.GET("/other", func(c *gin.Context) { panic(42) })

	for path, want := range map[string]string{
		"/string": "boom",
		"/error":  "broken",
		"/other":  "An unexpected error occurred",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, w.Code, http.StatusInternalServerError, path)

		var resp models.ErrorResponse
		assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, resp.Error.Code, "INTERNAL_ERROR")
		assert.Equal(t, resp.Error.Message, want)
	}
}

func TestCORSRestrictsOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://allowed.example"))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://allowed.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "https://allowed.example")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://other.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "")
}

func TestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/metrics", MetricsHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing/123", nil))
	assert.Equal(t, w.Code, http.StatusNotFound)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Assert(t, is.Contains(w.Body.String(), `route="unmatched"`))
}
