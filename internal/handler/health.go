package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/eventhub/internal/middleware"
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/sourcegraph/conc/pool"
)

// HealthCheck probes one dependency. Required checks turn the overall
// status unhealthy when they fail.
type HealthCheck struct {
	Name     string
	Required bool
	Ping     func(ctx context.Context) error
}

type checkResult struct {
	name     string
	required bool
	duration time.Duration
	err      error
}

// HealthHandler serves the liveness probe and the detailed dependency status.
type HealthHandler struct {
	Handler
	checks []HealthCheck
	now    func() time.Time
}

// NewHealthHandler builds the checks from the server's connections,
// filtered by observability.health_checks.
func NewHealthHandler(s *server.Server) *HealthHandler {
	var checks []HealthCheck

	hc := s.Config.Observability.HealthChecks
	if hc.Enabled {
		if s.DB != nil && s.Config.Observability.HasCheck("database") {
			checks = append(checks, HealthCheck{Name: "database", Required: true, Ping: s.DB.Ping})
		}

		if s.Redis != nil && s.Config.Observability.HasCheck("redis") {
			redisClient := s.Redis
			checks = append(checks, HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}})
		}
	}

	return newHealthHandler(s, checks)
}

func newHealthHandler(s *server.Server, checks []HealthCheck) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
		now:     time.Now,
	}
}

// Alive answers GET / with a fixed message and the server time.
func (h *HealthHandler) Alive(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Server is running smoothly",
		"timestamp": h.now().UTC(),
	})
}

// CheckHealth runs every dependency check concurrently.
//
// It returns 200 when all required checks pass and 503 otherwise. Failed
// checks are recorded as HealthCheckError events in New Relic.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := h.server.Config.Observability.HealthChecks.Timeout

	p := pool.NewWithResults[checkResult]()
	for _, check := range h.checks {
		p.Go(func() checkResult {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			checkStart := time.Now()
			err := check.Ping(ctx)
			return checkResult{
				name:     check.Name,
				required: check.Required,
				duration: time.Since(checkStart),
				err:      err,
			}
		})
	}
	results := p.Wait()

	checks := make(map[string]interface{}, len(results))
	isHealthy := true

	for _, res := range results {
		if res.err != nil {
			checks[res.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": res.duration.String(),
				"error":         res.err.Error(),
			}

			if res.required {
				isHealthy = false
			}

			logger.Error().
				Err(res.err).
				Str("check", res.name).
				Dur("response_time", res.duration).
				Msg("health check failed")

			h.recordFailure(res)
			continue
		}

		checks[res.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": res.duration.String(),
		}
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   h.now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(res checkResult) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       res.name,
		"operation":        "health_check",
		"error_type":       res.name + "_unhealthy",
		"response_time_ms": res.duration.Milliseconds(),
		"error_message":    res.err.Error(),
	})
}
