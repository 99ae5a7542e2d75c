package model

import (
	"time"

	"github.com/samber/lo"
)

// Mutation is a single-document update produced by the lifecycle stamper.
type Mutation struct {
	// Set holds the fields merged into the document.
	Set Document
	// SetOnInsert is only applied when an upsert inserts a new document.
	SetOnInsert Document
	// Upsert creates the document when the id does not match.
	Upsert bool
	// LiveOnly restricts the match to records that are not soft-deleted.
	LiveOnly bool
}

// Sanitize drops every reserved field, and every dotted path into one,
// from a client payload.
func Sanitize(payload Document) Document {
	if payload == nil {
		return Document{}
	}
	return Document(lo.OmitBy(map[string]any(payload), func(key string, _ any) bool {
		return IsReserved(key)
	}))
}

// StampCreate returns the document to insert for a Create.
func StampCreate(payload Document, now time.Time) Document {
	doc := Sanitize(payload)
	doc[FieldCreatedAt] = now
	doc[FieldIsDeleted] = false
	return doc
}

// StampUpdate returns the merge-update for an Update. An upsert-insert
// also receives createdAt and isDeleted so it shows up in listings.
func StampUpdate(payload Document, now time.Time) Mutation {
	set := Sanitize(payload)
	set[FieldUpdatedAt] = now

	return Mutation{
		Set: set,
		SetOnInsert: Document{
			FieldCreatedAt: now,
			FieldIsDeleted: false,
		},
		Upsert: true,
	}
}

// StampDelete returns the soft-delete flag flip.
func StampDelete(now time.Time) Mutation {
	return Mutation{
		Set: Document{
			FieldIsDeleted: true,
			FieldDeletedAt: now,
		},
		LiveOnly: true,
	}
}
