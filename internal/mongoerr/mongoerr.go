// Package mongoerr specifically handles MongoDB driver errors.
//
// It classifies the driver's error values (write exceptions, command
// errors, malformed ObjectIDs, missing documents) and converts them into
// user-friendly HTTP errors (e.g., converting a duplicate key error into
// a "Conflict" error)
package mongoerr

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Code is the category of a store error.
type Code string

const (
	Other          Code = "other"
	InvalidID      Code = "invalid_id"
	DuplicateKey   Code = "duplicate_key"
	NoDocuments    Code = "no_documents"
	Timeout        Code = "timeout"
	Network        Code = "network"
	Unacknowledged Code = "unacknowledged"
)

// Error is a classified store error. It keeps the driver error for
// Unwrap and logging.
type Error struct {
	Code       Code
	Collection string
	Message    string
	driverErr  error
}

func (e *Error) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("mongo %s on %s: %s", e.Code, e.Collection, e.Message)
	}
	return fmt.Sprintf("mongo %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// Wrap classifies err and tags it with the collection it came from.
// A nil err stays nil.
func Wrap(err error, collection string) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	return &Error{
		Code:       Classify(err),
		Collection: collection,
		Message:    err.Error(),
		driverErr:  err,
	}
}

// ErrCode reports the Code of err, or Other when err was never wrapped.
func ErrCode(err error) Code {
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Code
	}
	return Other
}

// Classify maps a raw driver error to a Code.
func Classify(err error) Code {
	switch {
	case err == nil:
		return Other
	case errors.Is(err, primitive.ErrInvalidHex):
		return InvalidID
	case errors.Is(err, mongo.ErrNoDocuments):
		return NoDocuments
	case errors.Is(err, mongo.ErrUnacknowledgedWrite):
		return Unacknowledged
	case mongo.IsDuplicateKeyError(err):
		return DuplicateKey
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case mongo.IsNetworkError(err):
		return Network
	default:
		return Other
	}
}
