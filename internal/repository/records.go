package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/mongoerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepository reads and writes a mutable collection.
type RecordRepository struct {
	collection *mongo.Collection
}

func NewRecordRepository(collection *mongo.Collection) *RecordRepository {
	return &RecordRepository{collection: collection}
}

// Name is the collection name.
func (r *RecordRepository) Name() string {
	return r.collection.Name()
}

// List returns live records, newest first, with lifecycle fields projected out.
// A zero limit means no limit.
func (r *RecordRepository) List(ctx context.Context, query model.ListQuery) ([]model.Record, error) {
	projection := bson.D{}
	for _, field := range model.LifecycleFields {
		projection = append(projection, bson.E{Key: field, Value: 0})
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: model.FieldCreatedAt, Value: -1},
			{Key: model.FieldUpdatedAt, Value: -1},
		}).
		SetProjection(projection)
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{model.FieldIsDeleted: false}, opts)
	if err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	records := make([]model.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, model.NewRecord(model.Document(doc)))
	}

	return records, nil
}

// Insert stores an already stamped document.
func (r *RecordRepository) Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	return &model.InsertResult{
		Acknowledged: true,
		InsertedID:   model.FormatID(res.InsertedID),
	}, nil
}

// Update applies a single-document mutation to the record with the given id.
func (r *RecordRepository) Update(ctx context.Context, id string, mutation model.Mutation) (*model.UpdateResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	filter := bson.M{model.FieldStoreID: oid}
	if mutation.LiveOnly {
		filter[model.FieldIsDeleted] = bson.M{"$ne": true}
	}

	update := bson.M{"$set": bson.M(mutation.Set)}
	if len(mutation.SetOnInsert) > 0 {
		update["$setOnInsert"] = bson.M(mutation.SetOnInsert)
	}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(mutation.Upsert))
	if err != nil {
		return nil, mongoerr.Wrap(err, r.Name())
	}

	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    model.FormatID(res.UpsertedID),
	}, nil
}

// ParseID parses a 24 character hex ObjectID. Every failure wraps
// primitive.ErrInvalidHex.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", primitive.ErrInvalidHex, id)
	}
	return oid, nil
}
