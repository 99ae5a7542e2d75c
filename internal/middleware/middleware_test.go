package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/eventhub/internal/config"
	"github.com/deppfellow/eventhub/internal/errs"
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: config.DefaultConfig(),
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "http error",
			err:     errs.NewEmptyResultError("No events found"),
			status:  http.StatusNotFound,
			code:    errs.CodeEmptyResult,
			message: "No events found",
		},
		{
			name:    "wrapped http error",
			err:     fmt.Errorf("listing: %w", errs.NewNotFoundError("Event not found", true, nil)),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Event not found",
		},
		{
			name:    "driver error",
			err:     mongo.ErrNoDocuments,
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Record not found",
		},
		{
			name:    "unknown error",
			err:     fmt.Errorf("connection reset"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			status:  http.StatusMethodNotAllowed,
			code:    "METHOD_NOT_ALLOWED",
			message: "Method Not Allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(newTestServer())
			e.GET("/boom", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	e := newTestEcho(newTestServer())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		assert.Equal(t, GetRequestID(c), RequestIDFromContext(c.Request().Context()))
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestContextEnhancer_StoresLogger(t *testing.T) {
	s := newTestServer()
	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/", func(c echo.Context) error {
		assert.Same(t, GetLogger(c), LoggerFromContext(c.Request().Context(), nil))
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer()
	s.Config.Server.RateLimit = 1

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit("/"))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/events"))
	assert.Equal(t, http.StatusTooManyRequests, do("/events"))
	assert.Equal(t, http.StatusOK, do("/"), "skipped paths are never limited")
}

func TestRateLimit_DisabledByDefault(t *testing.T) {
	s := newTestServer()

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	s := newTestServer()
	metrics := NewMetricsMiddleware("test")

	e := newTestEcho(s)
	e.Use(metrics.Middleware())
	e.GET("/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return errs.NewEmptyResultError("No events found") })

	for _, path := range []string{"/events", "/events", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("test", http.MethodGet, "/events", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("test", http.MethodGet, "/missing", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.statusCategory.WithLabelValues("test", "4xx", http.MethodGet, "/missing")))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestRequireAuth_PassThroughWhenDisabled(t *testing.T) {
	s := newTestServer()

	e := newTestEcho(s)
	e.POST("/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewAuthMiddleware(s).RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_RejectsMissingToken(t *testing.T) {
	s := newTestServer()
	s.Config.Auth.SecretKey = "sk_test_123"

	e := newTestEcho(s)
	e.POST("/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewAuthMiddleware(s).RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}
