package repository

import (
	"context"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/mongoerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository reads a list-only collection as-is.
type CatalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(collection *mongo.Collection) *CatalogRepository {
	return &CatalogRepository{collection: collection}
}

func (r *CatalogRepository) Name() string {
	return r.collection.Name()
}

// List returns every document in the collection, unfiltered and in
// natural order.
func (r *CatalogRepository) List(ctx context.Context) ([]model.Document, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, model.Document(doc))
	}

	return out, nil
}
