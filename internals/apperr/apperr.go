// Typed domain errors shared by every feature service. Controllers never
// inspect raw gorm errors; services translate them here and the helpers
// package maps codes onto the JSON envelope.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeConflict         Code = "CONFLICT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAuthorization    Code = "FORBIDDEN"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
)

// FieldErrors collects every violated constraint per field so callers can
// surface the full list, not just the first failure.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

type Error struct {
	Code    Code
	Message string
	Fields  FieldErrors
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%d field(s))", e.Code, e.Message, len(e.Fields))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(fields FieldErrors) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func ValidationMsg(field, msg string) *Error {
	return Validation(FieldErrors{field: {msg}})
}

func Conflict(message string) *Error      { return New(CodeConflict, message) }
func NotFound(message string) *Error      { return New(CodeNotFound, message) }
func Authorization(message string) *Error { return New(CodeAuthorization, message) }

func CapacityExceeded(message string) *Error {
	return New(CodeCapacityExceeded, message)
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsCode(err error, code Code) bool {
	if e, ok := As(err); ok {
		return e.Code == code
	}
	return false
}
