package outcome

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories an operation can report.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_FAILED"
	KindAuthentication  Kind = "NOT_AUTHENTICATED"
	KindQuota           Kind = "STORAGE_QUOTA"
	KindAccess          Kind = "STORAGE_ACCESS_DENIED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConfirmRequired Kind = "CONFIRMATION_REQUIRED"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Failure standardizes application failures. Operations never panic;
// they return a Failure tagged with one of the kinds above so callers
// can match exhaustively.
type Failure struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Validation reports field-level rule violations as a field->message map.
func Validation(fields map[string]string) *Failure {
	return &Failure{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Unauthenticated reports an operation attempted without a valid session.
func Unauthenticated(message string) *Failure {
	return &Failure{Kind: KindAuthentication, Message: message}
}

// Quota reports a write the underlying store rejected for size limits.
func Quota(err error) *Failure {
	return &Failure{Kind: KindQuota, Message: "storage quota exceeded", Err: err}
}

// AccessDenied reports the platform refusing store access entirely.
func AccessDenied(err error) *Failure {
	return &Failure{Kind: KindAccess, Message: "storage access denied", Err: err}
}

// NotFound reports a reference to a record that does not exist.
func NotFound(resource string) *Failure {
	return &Failure{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// ConfirmRequired reports a mutation withheld pending explicit
// confirmation. It is an outcome, not an error condition; callers
// re-invoke with confirmation to proceed.
func ConfirmRequired(message string) *Failure {
	return &Failure{Kind: KindConfirmRequired, Message: message}
}

// Internal wraps any unexpected failure so the caller surface stays
// generic while the cause remains available for logging.
func Internal(err error) *Failure {
	return &Failure{Kind: KindInternal, Message: "something went wrong", Err: err}
}

// As extracts a Failure from err, wrapping foreign errors as internal.
func As(err error) *Failure {
	if err == nil {
		return nil
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return Internal(err)
}

// HTTPStatus maps a failure kind to a transport status code. Only the
// HTTP edge consults this; core packages deal in kinds.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConfirmRequired:
		return http.StatusConflict
	case KindQuota, KindAccess:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}
