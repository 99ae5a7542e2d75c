package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewRecord_StripsLifecycleFields(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now()

	record := NewRecord(Document{
		FieldStoreID:   oid,
		"title":        "Gala",
		FieldIsDeleted: false,
		FieldCreatedAt: now,
		FieldUpdatedAt: now,
		FieldDeletedAt: now,
	})

	assert.Equal(t, oid.Hex(), record.ID)
	assert.Equal(t, Document{"title": "Gala"}, record.Fields)
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	record := Record{ID: "65f0c0ffee0000000000abcd", Fields: Document{"title": "Gala"}}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"65f0c0ffee0000000000abcd","title":"Gala"}`, string(data))

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, record, decoded)
}

func TestRecord_IDWinsOverPayloadID(t *testing.T) {
	record := Record{ID: "real", Fields: Document{"id": "fake"}}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"real"}`, string(data))
}

func TestSanitize_DropsReservedFields(t *testing.T) {
	payload := Document{
		"_id":       "x",
		"id":        "y",
		"createdAt": "2020-01-01",
		"isDeleted": true,
		"title":     "Gala",
	}

	assert.Equal(t, Document{"title": "Gala"}, Sanitize(payload))
	assert.Len(t, payload, 5, "input must not be mutated")
	assert.Equal(t, Document{}, Sanitize(nil))
}

func TestSanitize_DropsPathsIntoReservedFields(t *testing.T) {
	payload := Document{
		"createdAt.x":  1,
		"isDeleted.y":  true,
		"_id.z":        "x",
		"venue.city":   "Oslo",
		"createdAtext": "kept",
	}

	assert.Equal(t, Document{"venue.city": "Oslo", "createdAtext": "kept"}, Sanitize(payload))
	assert.True(t, IsReserved("deletedAt"))
	assert.True(t, IsReserved("updatedAt.nested.deep"))
	assert.False(t, IsReserved("title"))
}

func TestStampCreate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	doc := StampCreate(Document{"title": "Gala", "createdAt": "forged"}, now)

	assert.Equal(t, now, doc[FieldCreatedAt])
	assert.Equal(t, false, doc[FieldIsDeleted])
	assert.Equal(t, "Gala", doc["title"])
	assert.NotContains(t, doc, FieldUpdatedAt)
}

func TestStampUpdate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m := StampUpdate(Document{"title": "New", "createdAt": "forged"}, now)

	assert.True(t, m.Upsert)
	assert.False(t, m.LiveOnly)
	assert.Equal(t, Document{"title": "New", FieldUpdatedAt: now}, m.Set)
	assert.Equal(t, Document{FieldCreatedAt: now, FieldIsDeleted: false}, m.SetOnInsert)
}

func TestStampDelete(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m := StampDelete(now)

	assert.False(t, m.Upsert)
	assert.True(t, m.LiveOnly)
	assert.Equal(t, Document{FieldIsDeleted: true, FieldDeletedAt: now}, m.Set)
	assert.Nil(t, m.SetOnInsert)
}

func TestUpdateResult_Applied(t *testing.T) {
	assert.False(t, UpdateResult{MatchedCount: 1}.Applied())
	assert.True(t, UpdateResult{ModifiedCount: 1}.Applied())
	assert.True(t, UpdateResult{UpsertedCount: 1}.Applied())
}

func TestResources(t *testing.T) {
	mutable := MutableResources()
	readOnly := ReadOnlyResources()

	assert.Len(t, mutable, 3)
	assert.Len(t, readOnly, 3)
	for _, r := range readOnly {
		assert.True(t, r.ReadOnly)
	}

	events, ok := FindResource("events")
	require.True(t, ok)
	assert.Equal(t, "No events found", events.EmptyMessage())
	assert.Equal(t, "Event not found", events.NotFoundMessage())
	assert.Equal(t, "Event created successfully", events.CreatedMessage())
	assert.Equal(t, "Event updated successfully", events.UpdatedMessage())
	assert.Equal(t, "Event deleted successfully", events.DeletedMessage())

	recent, ok := FindResource("recent")
	require.True(t, ok)
	assert.Equal(t, "Recent item not found", recent.NotFoundMessage())
	assert.Equal(t, "Recent item updated successfully", recent.UpdatedMessage(), "only the first letter is capitalized")

	_, ok = FindResource("unknown")
	assert.False(t, ok)
}
