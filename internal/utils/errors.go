// internal/utils/errors.go
package utils

import (
	"fmt"
	"net/http"
)

// AppError is the failure type every service returns. The handler layer is
// the only place that maps it to an HTTP status and JSON body. Errors carries
// per-field detail for validation failures and is empty otherwise.
type AppError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, format string, args ...interface{}) *AppError {
	return &AppError{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequestError(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusBadRequest, format, args...)
}

func UnauthorizedError(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusUnauthorized, format, args...)
}

func ForbiddenError(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusForbidden, format, args...)
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusNotFound, format, args...)
}

func InternalError(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusInternalServerError, format, args...)
}
