package repository

import (
	"context"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/mongoerr"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository appends to the audit log collection.
type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(collection *mongo.Collection) *AuditRepository {
	return &AuditRepository{collection: collection}
}

// Record stores one audit entry.
func (r *AuditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return mongoerr.Wrap(err, r.collection.Name())
}
