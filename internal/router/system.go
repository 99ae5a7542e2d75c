package router

import (
	"github.com/deppfellow/eventhub/internal/handler"
	"github.com/deppfellow/eventhub/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// business logic: liveness, dependency status and Prometheus metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/", h.Health.Alive)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(m.Metrics.Handler()))
}
