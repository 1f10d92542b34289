package client

import "errors"

// Kind classifies an API error by the failure it reports.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// FieldError describes a single rejected payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured error returned for non-2xx responses.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *Error) Error() string { return e.Message }

// KindOf returns the classification of err, defaulting to KindInternal for
// errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsUnauthorized reports whether err is an authentication error.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsForbidden reports whether err is an authorization error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// FieldsOf returns the per-field details of a validation error, or nil.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
