// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Every response carries the {success, ...payload} envelope; failures carry
// {success:false, message} plus a stack trace in debug mode.

func SuccessResponse(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func CreatedResponse(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusCreated, body)
}

func ErrorResponse(c *gin.Context, status int, message string) {
	body := gin.H{"success": false, "message": message}
	if gin.IsDebugging() {
		body["stack"] = string(debug.Stack())
	}
	c.JSON(status, body)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	body := gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	}
	c.JSON(http.StatusBadRequest, body)
}

// HandleServiceError maps a service failure to an HTTP response. Anything
// that is not an AppError is treated as an unexpected internal failure and
// logged before being masked.
func HandleServiceError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if len(appErr.Errors) > 0 {
			ValidationErrorResponse(c, appErr.Errors)
			return
		}
		ErrorResponse(c, appErr.Status, appErr.Message)
		return
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("Unexpected service error")

	ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
