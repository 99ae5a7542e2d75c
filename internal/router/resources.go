package router

import (
	"net/http"

	"github.com/deppfellow/eventhub/internal/handler"
	"github.com/deppfellow/eventhub/internal/middleware"
	"github.com/deppfellow/eventhub/internal/model"
	"github.com/labstack/echo/v4"
)

// registerResourceRoutes mounts every collection at /<name>.
//
// Mutable collections get list, create, update and delete; writes go
// through RequireAuth. Read-only collections only get list.
func registerResourceRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	for _, resource := range model.Resources {
		group := r.Group("/" + resource.Name)

		if resource.ReadOnly {
			catalog, ok := h.Catalog[resource.Name]
			if !ok {
				continue
			}
			group.GET("", handler.Handle(catalog.Handler, catalog.List, http.StatusOK, &handler.ListCatalogRequest{}))
			continue
		}

		records, ok := h.Records[resource.Name]
		if !ok {
			continue
		}

		group.GET("", handler.Handle(records.Handler, records.List, http.StatusOK, &handler.ListRecordsRequest{}))
		group.POST("", handler.Handle(records.Handler, records.Create, http.StatusOK, &handler.CreateRecordRequest{}), m.Auth.RequireAuth)
		group.PUT("/:id", handler.Handle(records.Handler, records.Update, http.StatusOK, &handler.UpdateRecordRequest{}), m.Auth.RequireAuth)
		group.DELETE("/:id", handler.Handle(records.Handler, records.Delete, http.StatusOK, &handler.DeleteRecordRequest{}), m.Auth.RequireAuth)
	}
}
