// response.go - JSON envelopes shared by every endpoint

package response

import (
	"net/http"

	"go-blog-backend/apperror"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every non-validation response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationEnvelope is the body of a 400 response.
type ValidationEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
	Message    []string `json:"message"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Status maps an error kind to its HTTP status. Duplicate identity stays a 500.
func Status(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the envelope matching err's kind.
func Error(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := Status(appErr.Kind)

	if appErr.Kind == apperror.KindInternal {
		_ = c.Error(err) // logged by middleware.RequestLogger on its injected logger
	}

	if appErr.Kind == apperror.KindValidation {
		c.AbortWithStatusJSON(status, ValidationEnvelope{
			StatusCode: status,
			Error:      appErr.Message,
			Message:    appErr.Violations,
		})
		return
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: appErr.Message, Data: nil})
}
