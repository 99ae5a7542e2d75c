package repository

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/mongoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// firstDocument returns the first document of an array field of a command.
func firstDocument(t *testing.T, cmd bson.Raw, key string) bson.Raw {
	t.Helper()
	values, err := cmd.Lookup(key).Array().Values()
	require.NoError(t, err)
	require.NotEmpty(t, values)
	return values[0].Document()
}

func TestRecordRepository_List(t *testing.T) {
	mt := newMock(t)

	mt.Run("returns live records without lifecycle fields", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.Coll.Database().Name()+"."+mt.Coll.Name(), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Gala"}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Expo"}},
		))

		records, err := repo.List(context.Background(), model.ListQuery{Limit: 2})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, first.Hex(), records[0].ID)
		assert.Equal(t, model.Document{"title": "Gala"}, records[0].Fields)
		assert.Equal(t, second.Hex(), records[1].ID)

		cmd := mt.GetStartedEvent().Command
		assert.False(t, cmd.Lookup("filter", model.FieldIsDeleted).Boolean())
		assert.Equal(t, int64(2), cmd.Lookup("limit").Int64())

		sort, err := cmd.Lookup("sort").Document().Elements()
		require.NoError(t, err)
		require.Len(t, sort, 2)
		assert.Equal(t, model.FieldCreatedAt, sort[0].Key())
		assert.Equal(t, model.FieldUpdatedAt, sort[1].Key())

		for _, field := range model.LifecycleFields {
			_, lookupErr := cmd.Lookup("projection").Document().LookupErr(field)
			assert.NoError(t, lookupErr, field)
		}
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.Coll.Database().Name()+"."+mt.Coll.Name(), mtest.FirstBatch))

		records, err := repo.List(context.Background(), model.ListQuery{Limit: 6})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	mt.Run("store failure", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))

		_, err := repo.List(context.Background(), model.ListQuery{Limit: 6})
		require.Error(t, err)
		assert.Equal(t, mongoerr.Other, mongoerr.ErrCode(err))
	})
}

func TestRecordRepository_Insert(t *testing.T) {
	mt := newMock(t)

	mt.Run("acknowledged with generated id", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		doc := model.StampCreate(model.Document{"title": "Gala"}, time.Now())
		res, err := repo.Insert(context.Background(), doc)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.Len(t, res.InsertedID, 24)

		sent := firstDocument(t, mt.GetStartedEvent().Command, "documents")
		assert.Equal(t, "Gala", sent.Lookup("title").StringValue())
		assert.False(t, sent.Lookup(model.FieldIsDeleted).Boolean())
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.Insert(context.Background(), model.Document{"title": "Gala"})
		require.Error(t, err)
		assert.Equal(t, mongoerr.DuplicateKey, mongoerr.ErrCode(err))
	})
}

func TestRecordRepository_Update(t *testing.T) {
	mt := newMock(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("merge update", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		id := primitive.NewObjectID()
		res, err := repo.Update(context.Background(), id.Hex(), model.StampUpdate(model.Document{"title": "New"}, now))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)
		assert.Empty(t, res.UpsertedID)
		assert.True(t, res.Applied())

		stmt := firstDocument(t, mt.GetStartedEvent().Command, "updates")
		assert.Equal(t, id, stmt.Lookup("q", model.FieldStoreID).ObjectID())
		assert.True(t, stmt.Lookup("upsert").Boolean())
		assert.Equal(t, "New", stmt.Lookup("u", "$set", "title").StringValue())

		_, lookupErr := stmt.Lookup("u", "$set").Document().LookupErr(model.FieldCreatedAt)
		assert.Error(t, lookupErr, "createdAt must only be set on insert")
		_, lookupErr = stmt.Lookup("u", "$setOnInsert").Document().LookupErr(model.FieldCreatedAt)
		assert.NoError(t, lookupErr)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 1},
			{Key: "nModified", Value: 0},
			{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
		})

		res, err := repo.Update(context.Background(), id.Hex(), model.StampUpdate(model.Document{"title": "New"}, now))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.UpsertedCount)
		assert.Equal(t, id.Hex(), res.UpsertedID)
		assert.True(t, res.Applied())
	})

	mt.Run("soft delete only matches live records", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		res, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), model.StampDelete(now))
		require.NoError(t, err)
		assert.False(t, res.Applied())

		stmt := firstDocument(t, mt.GetStartedEvent().Command, "updates")
		assert.True(t, stmt.Lookup("q", model.FieldIsDeleted, "$ne").Boolean())
		assert.False(t, stmt.Lookup("upsert").Boolean())
		assert.True(t, stmt.Lookup("u", "$set", model.FieldIsDeleted).Boolean())
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.Coll)

		_, err := repo.Update(context.Background(), "not-an-id", model.StampDelete(now))
		require.Error(t, err)
		assert.Equal(t, mongoerr.InvalidID, mongoerr.ErrCode(err))
	})
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err = ParseID(bad)
		assert.ErrorIs(t, err, primitive.ErrInvalidHex, bad)
	}
}

func TestCatalogRepository_List(t *testing.T) {
	mt := newMock(t)

	mt.Run("returns raw documents", func(mt *mtest.T) {
		repo := NewCatalogRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.Coll.Database().Name()+"."+mt.Coll.Name(), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "plan", Value: "Pro"}, {Key: "isDeleted", Value: true}},
		))

		docs, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, id, docs[0]["_id"])
		assert.Equal(t, "Pro", docs[0]["plan"])
		assert.Equal(t, true, docs[0]["isDeleted"])
	})
}

func TestAuditRepository_Record(t *testing.T) {
	mt := newMock(t)

	mt.Run("inserts entry", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Record(context.Background(), &model.AuditLog{
			Timestamp: time.Now(),
			Entity:    "events",
			Action:    model.AuditActionCreate,
			RecordID:  primitive.NewObjectID().Hex(),
		})
		require.NoError(t, err)

		sent := firstDocument(t, mt.GetStartedEvent().Command, "documents")
		assert.Equal(t, "events", sent.Lookup("entity").StringValue())
		assert.Equal(t, "create", sent.Lookup("action").StringValue())
	})
}
