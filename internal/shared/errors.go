// ============================================================================
// internal/shared/errors.go
// Error taxonomy shared by the services. The gateway maps these to HTTP
// status codes; the services never import net/http.
// ============================================================================

package shared

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by write paths when the addressed entity does not
// exist. Read/list paths return empty results instead.
var ErrNotFound = errors.New("not found")

// ValidationError reports a field that failed a static constraint. The write
// is aborted before any persistence attempt or side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a composite-uniqueness violation (one bookmark per
// user+material, one enrollment per user+program).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError builds a uniqueness-conflict error
func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// RelatedWriteError reports a failed side-effect update on a related
// document. For pre-write side effects the primary write is aborted too, so
// the caller sees the whole operation fail; no automatic retry.
type RelatedWriteError struct {
	Collection string
	Err        error
}

func (e *RelatedWriteError) Error() string {
	return fmt.Sprintf("related write on %s failed: %v", e.Collection, e.Err)
}

func (e *RelatedWriteError) Unwrap() error {
	return e.Err
}

// NewRelatedWriteError wraps a failed related-document update
func NewRelatedWriteError(collection string, err error) *RelatedWriteError {
	return &RelatedWriteError{Collection: collection, Err: err}
}

// IsValidation reports whether err is a field validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a uniqueness conflict
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
