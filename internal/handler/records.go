package handler

import (
	"context"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/labstack/echo/v4"
)

// RecordService is the business logic behind a mutable collection.
type RecordService interface {
	Resource() model.Resource
	List(ctx context.Context, limit *int64) ([]model.Record, error)
	Create(ctx context.Context, payload model.Document) (*model.InsertResult, error)
	Update(ctx context.Context, id string, payload model.Document) (*model.UpdateResult, error)
	Delete(ctx context.Context, id string) (*model.UpdateResult, error)
}

// MutationResponse is the body of every successful write.
type MutationResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RecordHandler serves list, create, update and delete for one collection.
type RecordHandler struct {
	Handler
	service RecordService
}

func NewRecordHandler(s *server.Server, service RecordService) *RecordHandler {
	return &RecordHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func (h *RecordHandler) Resource() model.Resource {
	return h.service.Resource()
}

func (h *RecordHandler) List(c echo.Context, req *ListRecordsRequest) ([]model.Record, error) {
	return h.service.List(c.Request().Context(), req.Limit)
}

func (h *RecordHandler) Create(c echo.Context, req *CreateRecordRequest) (*MutationResponse[*model.InsertResult], error) {
	res, err := h.service.Create(c.Request().Context(), req.Payload)
	if err != nil {
		return nil, err
	}

	return &MutationResponse[*model.InsertResult]{
		Message: h.Resource().CreatedMessage(),
		Data:    res,
	}, nil
}

func (h *RecordHandler) Update(c echo.Context, req *UpdateRecordRequest) (*MutationResponse[*model.UpdateResult], error) {
	res, err := h.service.Update(c.Request().Context(), req.ID, req.Payload)
	if err != nil {
		return nil, err
	}

	return &MutationResponse[*model.UpdateResult]{
		Message: h.Resource().UpdatedMessage(),
		Data:    res,
	}, nil
}

func (h *RecordHandler) Delete(c echo.Context, req *DeleteRecordRequest) (*MutationResponse[*model.UpdateResult], error) {
	res, err := h.service.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}

	return &MutationResponse[*model.UpdateResult]{
		Message: h.Resource().DeletedMessage(),
		Data:    res,
	}, nil
}
