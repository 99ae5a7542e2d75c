package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names a mutation recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditCollection is where audit entries are stored.
const AuditCollection = "audit_logs"

// AuditLog is one entry of the mutation audit trail.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Entity    string             `bson:"entity" json:"entity"`
	Action    AuditAction        `bson:"action" json:"action"`
	RecordID  string             `bson:"recordId" json:"recordId"`
	RequestID string             `bson:"requestId,omitempty" json:"requestId,omitempty"`
	Data      Document           `bson:"data,omitempty" json:"data,omitempty"` // raw payload
}
