package database

import (
	"context"
	"fmt"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingIndexName is the name of the index backing every listing query.
const ListingIndexName = "live_by_recency"

// ListingIndex matches the filter and sort used by RecordRepository.List.
func ListingIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: model.FieldIsDeleted, Value: 1},
			{Key: model.FieldCreatedAt, Value: -1},
			{Key: model.FieldUpdatedAt, Value: -1},
		},
		Options: options.Index().SetName(ListingIndexName),
	}
}

// EnsureIndexes creates the listing index on every mutable collection and
// the timestamp index on the audit collection. Creating an existing index
// is a no-op, so this runs on every start.
func EnsureIndexes(ctx context.Context, logger *zerolog.Logger, db *mongo.Database, resources []model.Resource) error {
	for _, resource := range resources {
		if resource.ReadOnly {
			continue
		}

		name, err := db.Collection(resource.Name).Indexes().CreateOne(ctx, ListingIndex())
		if err != nil {
			return fmt.Errorf("creating listing index on %s: %w", resource.Name, err)
		}

		logger.Info().
			Str("collection", resource.Name).
			Str("index", name).
			Msg("collection index ready")
	}

	_, err := db.Collection(model.AuditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "entity", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("entity_by_time"),
	})
	if err != nil {
		return fmt.Errorf("creating audit index: %w", err)
	}

	return nil
}
