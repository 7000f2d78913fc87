package core

import (
	"sort"

	"github.com/pkg/errors"
)

// FieldError names a single form field the backend (or a local
// validator) rejected, with a user-facing message.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field rejection messages so the web layer
// can re-render the form instead of showing a generic error page.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldErrorsFromMap converts the remote API's field-error payload
// ({"errors": {"field": "message"}}) into FieldErrors, sorted by field
// name so rendered forms are stable.
func FieldErrorsFromMap(m map[string]string) []FieldError {
	flds := make([]FieldError, 0, len(m))
	for field, msg := range m {
		flds = append(flds, FieldError{Field: field, Error: msg})
	}
	sort.Slice(flds, func(i, j int) bool { return flds[i].Field < flds[j].Field })
	return flds
}

type shutdown struct {
	message string
}

// NewShutdownError flags an error as unrecoverable: the HTTP error
// handler answers the request, then signals a graceful stop.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
