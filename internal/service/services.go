package service

import (
	"fmt"

	"github.com/deppfellow/eventhub/internal/cache"
	"github.com/deppfellow/eventhub/internal/lib/job"
	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/repository"
	"github.com/deppfellow/eventhub/internal/server"
)

// Services is a container for all service instances. Records and
// Catalog are keyed by collection name.
type Services struct {
	Auth    *AuthService
	Job     *job.JobService
	Records map[string]*RecordService
	Catalog map[string]*CatalogService
}

// NewService wires one service per resource on top of the repositories.
// The list cache needs Redis and cache.enabled; the audit trail needs
// the job service.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var opts []RecordServiceOption

	if s.Redis != nil && s.Config.Cache.Enabled {
		opts = append(opts, WithListCache(cache.NewListCache(s.Redis, s.Config.Cache.TTL, s.Logger)))
	}

	if s.Job != nil {
		opts = append(opts, WithAudit(s.Job))
	}

	services := &Services{
		Auth:    NewAuthService(s),
		Job:     s.Job,
		Records: make(map[string]*RecordService),
		Catalog: make(map[string]*CatalogService),
	}

	for _, resource := range model.Resources {
		if resource.ReadOnly {
			store, ok := repos.Catalog[resource.Name]
			if !ok {
				return nil, fmt.Errorf("no repository for collection %q", resource.Name)
			}
			services.Catalog[resource.Name] = NewCatalogService(resource, store)
			continue
		}

		store, ok := repos.Records[resource.Name]
		if !ok {
			return nil, fmt.Errorf("no repository for collection %q", resource.Name)
		}
		services.Records[resource.Name] = NewRecordService(
			resource,
			store,
			s.Config.Resources.DefaultListLimit,
			s.Logger,
			opts...,
		)
	}

	return services, nil
}
