// Package repository handles all interactions with the database.
//
// It contains the MongoDB queries used to list, insert, update and
// soft-delete documents, abstracting the driver away from the service
// layer. Every repository works on a single collection.
package repository

import (
	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/server"
)

// Repositories is a container for all repository instances.
//
// Records and Catalog are keyed by collection name.
type Repositories struct {
	Records map[string]*RecordRepository
	Catalog map[string]*CatalogRepository
	Audit   *AuditRepository
}

// NewRepositories builds one repository per known resource on top of s.DB.
func NewRepositories(s *server.Server) *Repositories {
	repos := &Repositories{
		Records: make(map[string]*RecordRepository),
		Catalog: make(map[string]*CatalogRepository),
		Audit:   NewAuditRepository(s.DB.Collection(model.AuditCollection)),
	}

	for _, resource := range model.Resources {
		collection := s.DB.Collection(resource.Name)
		if resource.ReadOnly {
			repos.Catalog[resource.Name] = NewCatalogRepository(collection)
			continue
		}
		repos.Records[resource.Name] = NewRecordRepository(collection)
	}

	return repos
}
