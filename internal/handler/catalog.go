package handler

import (
	"context"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/labstack/echo/v4"
)

// CatalogService is the business logic behind a read-only collection.
type CatalogService interface {
	Resource() model.Resource
	List(ctx context.Context) ([]model.Document, error)
}

// CatalogHandler lists a read-only collection.
type CatalogHandler struct {
	Handler
	service CatalogService
}

func NewCatalogHandler(s *server.Server, service CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func (h *CatalogHandler) Resource() model.Resource {
	return h.service.Resource()
}

func (h *CatalogHandler) List(c echo.Context, _ *ListCatalogRequest) ([]model.Document, error) {
	return h.service.List(c.Request().Context())
}
