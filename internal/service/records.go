package service

import (
	"context"
	"time"

	"github.com/deppfellow/eventhub/internal/errs"
	"github.com/deppfellow/eventhub/internal/lib/job"
	"github.com/deppfellow/eventhub/internal/middleware"
	"github.com/deppfellow/eventhub/internal/model"
	"github.com/rs/zerolog"
)

// RecordStore is the persistence a RecordService needs.
type RecordStore interface {
	List(ctx context.Context, query model.ListQuery) ([]model.Record, error)
	Insert(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	Update(ctx context.Context, id string, mutation model.Mutation) (*model.UpdateResult, error)
}

// ListCache caches listing pages. Optional.
type ListCache interface {
	Get(ctx context.Context, collection string, limit int64) (records []model.Record, version int64, ok bool, err error)
	Set(ctx context.Context, collection string, version, limit int64, records []model.Record) error
	Invalidate(ctx context.Context, collection string) error
}

// AuditEnqueuer queues audit entries. Optional.
type AuditEnqueuer interface {
	EnqueueAudit(ctx context.Context, p job.AuditPayload) error
}

// RecordService implements list, create, update and soft-delete for one
// mutable collection.
type RecordService struct {
	resource     model.Resource
	store        RecordStore
	cache        ListCache
	audit        AuditEnqueuer
	defaultLimit int64
	now          func() time.Time
	logger       *zerolog.Logger
}

// RecordServiceOption customizes a RecordService.
type RecordServiceOption func(*RecordService)

// WithListCache enables the listing cache.
func WithListCache(cache ListCache) RecordServiceOption {
	return func(s *RecordService) { s.cache = cache }
}

// WithAudit enables the audit trail.
func WithAudit(audit AuditEnqueuer) RecordServiceOption {
	return func(s *RecordService) { s.audit = audit }
}

// WithClock replaces time.Now for lifecycle stamps.
func WithClock(now func() time.Time) RecordServiceOption {
	return func(s *RecordService) { s.now = now }
}

func NewRecordService(
	resource model.Resource,
	store RecordStore,
	defaultLimit int64,
	logger *zerolog.Logger,
	opts ...RecordServiceOption,
) *RecordService {
	s := &RecordService{
		resource:     resource,
		store:        store,
		defaultLimit: defaultLimit,
		now:          time.Now,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RecordService) Resource() model.Resource {
	return s.resource
}

// List returns live records, newest first. A nil limit uses the
// configured default. No match is an EMPTY_RESULT error.
func (s *RecordService) List(ctx context.Context, limit *int64) ([]model.Record, error) {
	query := model.ListQuery{Limit: s.defaultLimit}
	if limit != nil {
		query.Limit = *limit
	}

	// the page is only cached under the version seen before the store read
	cacheable := false
	var version int64
	if s.cache != nil {
		records, v, ok, err := s.cache.Get(ctx, s.resource.Name, query.Limit)
		switch {
		case err != nil:
			s.log(ctx).Warn().Err(err).Str("collection", s.resource.Name).Msg("list cache read failed")
		case ok:
			return records, nil
		default:
			cacheable = true
			version = v
		}
	}

	records, err := s.store.List(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errs.NewEmptyResultError(s.resource.EmptyMessage())
	}

	if cacheable {
		if err := s.cache.Set(ctx, s.resource.Name, version, query.Limit, records); err != nil {
			s.log(ctx).Warn().Err(err).Str("collection", s.resource.Name).Msg("list cache write failed")
		}
	}

	return records, nil
}

// Create stamps and inserts payload.
func (s *RecordService) Create(ctx context.Context, payload model.Document) (*model.InsertResult, error) {
	doc := model.StampCreate(payload, s.now())

	res, err := s.store.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, model.AuditActionCreate, res.InsertedID, model.Sanitize(payload))

	return res, nil
}

// Update merges payload into the record, creating it when id is unknown.
func (s *RecordService) Update(ctx context.Context, id string, payload model.Document) (*model.UpdateResult, error) {
	res, err := s.store.Update(ctx, id, model.StampUpdate(payload, s.now()))
	if err != nil {
		return nil, err
	}

	if !res.Applied() {
		return nil, errs.NewNotFoundError(s.resource.NotFoundMessage(), true, nil)
	}

	s.afterWrite(ctx, model.AuditActionUpdate, id, model.Sanitize(payload))

	return res, nil
}

// Delete soft-deletes a live record. Deleting twice is NOT_FOUND.
func (s *RecordService) Delete(ctx context.Context, id string) (*model.UpdateResult, error) {
	res, err := s.store.Update(ctx, id, model.StampDelete(s.now()))
	if err != nil {
		return nil, err
	}

	if !res.Applied() {
		return nil, errs.NewNotFoundError(s.resource.NotFoundMessage(), true, nil)
	}

	s.afterWrite(ctx, model.AuditActionDelete, id, nil)

	return res, nil
}

// afterWrite invalidates the cache and queues the audit entry. Neither
// can fail the request: the write already happened.
func (s *RecordService) afterWrite(ctx context.Context, action model.AuditAction, id string, data model.Document) {
	logger := s.log(ctx)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, s.resource.Name); err != nil {
			logger.Error().Err(err).Str("collection", s.resource.Name).Msg("list cache invalidation failed")
		}
	}

	if s.audit != nil {
		err := s.audit.EnqueueAudit(ctx, job.AuditPayload{
			Entity:    s.resource.Name,
			Action:    action,
			RecordID:  id,
			RequestID: middleware.RequestIDFromContext(ctx),
			Data:      data,
			Timestamp: s.now().UTC(),
		})
		if err != nil {
			logger.Error().Err(err).Str("collection", s.resource.Name).Msg("audit enqueue failed")
		}
	}
}

func (s *RecordService) log(ctx context.Context) *zerolog.Logger {
	return middleware.LoggerFromContext(ctx, s.logger)
}
