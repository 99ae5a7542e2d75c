// Package model holds the document types shared by the repository,
// service and handler layers: schema-less records, the resources that
// expose them, the lifecycle stamper and the audit log entry.
package model
