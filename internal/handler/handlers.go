package handler

import (
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/deppfellow/eventhub/internal/service"
)

// Handlers is a container that groups all HTTP handlers. Records and
// Catalog are keyed by collection name.
type Handlers struct {
	Health  *HealthHandler
	Records map[string]*RecordHandler
	Catalog map[string]*CatalogHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	handlers := &Handlers{
		Health:  NewHealthHandler(s),
		Records: make(map[string]*RecordHandler, len(services.Records)),
		Catalog: make(map[string]*CatalogHandler, len(services.Catalog)),
	}

	for name, svc := range services.Records {
		handlers.Records[name] = NewRecordHandler(s, svc)
	}

	for name, svc := range services.Catalog {
		handlers.Catalog[name] = NewCatalogHandler(s, svc)
	}

	return handlers
}
