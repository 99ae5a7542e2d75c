package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/validation"
)

// ListRecordsRequest is GET /<resource>?limit=n.
type ListRecordsRequest struct {
	Limit *int64 `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *ListRecordsRequest) Validate() error {
	return validation.Struct(r)
}

// ListCatalogRequest is GET /<read-only resource>. It takes no input.
type ListCatalogRequest struct{}

func (r *ListCatalogRequest) Validate() error {
	return nil
}

// RecordBody is an arbitrary JSON object sent as a request body.
type RecordBody struct {
	Payload model.Document
}

// UnmarshalJSON accepts only a JSON object.
func (b *RecordBody) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return validation.CustomValidationErrors{{Field: "body", Message: "must be a JSON object"}}
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	b.Payload = doc
	return nil
}

func (b *RecordBody) validateBody() validation.CustomValidationErrors {
	if b.Payload == nil {
		return validation.CustomValidationErrors{{Field: "body", Message: "must be a JSON object"}}
	}

	var problems validation.CustomValidationErrors
	for key := range b.Payload {
		switch {
		case key == "" || strings.HasPrefix(key, "$"):
			problems = append(problems, validation.CustomValidationError{
				Field:   key,
				Message: "field names must not be empty or start with '$'",
			})
		// bare reserved keys are dropped by model.Sanitize; paths into them
		// would collide with the server stamped fields
		case strings.Contains(key, ".") && model.IsReserved(key):
			problems = append(problems, validation.CustomValidationError{
				Field:   key,
				Message: "reserved fields cannot be set",
			})
		}
	}
	return problems
}

// CreateRecordRequest is POST /<resource>.
type CreateRecordRequest struct {
	RecordBody
}

func (r *CreateRecordRequest) Validate() error {
	if problems := r.validateBody(); len(problems) > 0 {
		return problems
	}
	return nil
}

// UpdateRecordRequest is PUT /<resource>/:id.
type UpdateRecordRequest struct {
	ID string `param:"id" validate:"required,mongodb"`
	RecordBody
}

func (r *UpdateRecordRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if problems := r.validateBody(); len(problems) > 0 {
		return problems
	}
	return nil
}

// DeleteRecordRequest is DELETE /<resource>/:id.
type DeleteRecordRequest struct {
	ID string `param:"id" validate:"required,mongodb"`
}

func (r *DeleteRecordRequest) Validate() error {
	return validation.Struct(r)
}
