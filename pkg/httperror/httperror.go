package httperror

import (
	"fmt"
	"net/http"
)

// Error is returned by handlers and rendered by the HTTP layer as
// {"code", "message", "details", "errors"}.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	Fields  map[string][]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(http.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(http.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(http.StatusNotFound, code, message, details)
}

func Conflict(code, message string, details any) *Error {
	return New(http.StatusConflict, code, message, details)
}

// UnprocessableEntity carries per-field validation messages.
func UnprocessableEntity(code, message string, fields map[string][]string) *Error {
	err := New(http.StatusUnprocessableEntity, code, message, nil)
	err.Fields = fields
	return err
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}
