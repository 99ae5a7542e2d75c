package mongoerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/eventhub/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HandleError converts a low-level store error into an application-level error.
//
// Output:
//   - If already *errs.HTTPError: returned unchanged
//   - Malformed ObjectID: 400 with code INVALID_ID
//   - No documents: 404
//   - Duplicate key: 409
//   - Anything else (timeouts, network, unacknowledged writes): 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var collection string
	var mErr *Error
	if errors.As(err, &mErr) {
		collection = mErr.Collection
	}

	entity := getEntityName(collection)

	switch Classify(err) {
	case InvalidID:
		code := errs.CodeInvalidID
		return errs.NewBadRequestError(
			fmt.Sprintf("The %s id is not a valid identifier", strings.ToLower(entity)),
			true,
			&code,
			[]errs.FieldError{{Field: "id", Error: "must be a 24 character hex string"}},
			nil,
		)

	case NoDocuments:
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", entity), true, nil)

	case DuplicateKey:
		return errs.NewConflictError(
			fmt.Sprintf("A %s with this identifier already exists", strings.ToLower(entity)),
			true,
		)

	default:
		return errs.NewInternalServerError()
	}
}

// getEntityName derives a singular, human entity name from a collection.
//
//	"events" -> "Event", "audit_logs" -> "Audit Log", "" -> "Record"
func getEntityName(collection string) string {
	if collection == "" {
		return "Record"
	}

	entity := collection
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return humanizeText(entity)
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
