package service

import (
	"context"

	"github.com/deppfellow/eventhub/internal/errs"
	"github.com/deppfellow/eventhub/internal/model"
)

// CatalogStore reads a list-only collection.
type CatalogStore interface {
	List(ctx context.Context) ([]model.Document, error)
}

// CatalogService serves a read-only collection as stored.
type CatalogService struct {
	resource model.Resource
	store    CatalogStore
}

func NewCatalogService(resource model.Resource, store CatalogStore) *CatalogService {
	return &CatalogService{resource: resource, store: store}
}

func (s *CatalogService) Resource() model.Resource {
	return s.resource
}

// List returns every document. An empty collection is an EMPTY_RESULT error.
func (s *CatalogService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, errs.NewEmptyResultError(s.resource.EmptyMessage())
	}

	return docs, nil
}
