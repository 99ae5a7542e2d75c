package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names shared by every mutable collection.
const (
	FieldStoreID   = "_id"
	FieldID        = "id"
	FieldIsDeleted = "isDeleted"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt"
)

// LifecycleFields are stamped by the server and hidden from listings.
var LifecycleFields = []string{FieldIsDeleted, FieldCreatedAt, FieldUpdatedAt, FieldDeletedAt}

// ReservedFields can never be set from a client payload.
var ReservedFields = append([]string{FieldStoreID, FieldID}, LifecycleFields...)

// IsReserved reports whether key is a reserved field or a dotted path
// into one ("createdAt.x").
func IsReserved(key string) bool {
	root, _, _ := strings.Cut(key, ".")
	return lo.Contains(ReservedFields, root)
}

// Document is a schema-less key-value document as stored in a collection.
type Document map[string]any

// Without returns a copy of d minus the given keys.
func (d Document) Without(keys ...string) Document {
	return Document(lo.OmitByKeys(map[string]any(d), keys))
}

// Record is a listed document: its identifier plus the caller supplied
// fields. Lifecycle fields are never part of Fields.
type Record struct {
	ID     string
	Fields Document
}

// NewRecord extracts the store id from doc and strips lifecycle fields.
func NewRecord(doc Document) Record {
	return Record{
		ID:     FormatID(doc[FieldStoreID]),
		Fields: doc.Without(append([]string{FieldStoreID, FieldID}, LifecycleFields...)...),
	}
}

// MarshalJSON flattens the record into a single object with an "id" key.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[FieldID] = r.ID
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, _ := doc[FieldID].(string)
	r.ID = id
	r.Fields = doc.Without(FieldID)
	return nil
}

// FormatID renders a store identifier as a string.
func FormatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// ListQuery is the read side of a mutable collection.
type ListQuery struct {
	Limit int64
}

// InsertResult acknowledges a Create.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an Update or SoftDelete.
type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// Applied reports whether the write changed or created a document.
func (r UpdateResult) Applied() bool {
	return r.ModifiedCount > 0 || r.UpsertedCount > 0
}
