// Package apperr defines the application-layer error taxonomy shared by all use cases.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func Validation(message string, details map[string]any) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Code: code, Message: message}
}

func Forbidden(operation string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: "role is not permitted to perform this operation",
		Details: map[string]any{"operation": operation},
	}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	ae := (*Error)(nil)
	return errors.As(err, &ae) && ae.Kind == kind
}

// FieldErrors accumulates per-field validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Err returns a validation *Error carrying every collected field, or nil when empty.
func (fe FieldErrors) Err(message string) error {
	if len(fe) == 0 {
		return nil
	}
	details := make(map[string]any, len(fe))
	for k, v := range fe {
		details[k] = v
	}
	return Validation(message, details)
}
