// Package api provides the HTTP handlers of the event logger.
//
// Page handlers render minimal HTML; failures are written as plain-text
// bodies with conventional status codes through TextError. The JSON API
// endpoints use the SuccessResponse / ErrorResponse envelope.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// StatusForError maps a domain error to its HTTP status code. Provider
// identity failures render as 500: the browser-facing flow reports them as
// a server error, not a gateway error.
func StatusForError(err error) int {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Type {
	case domain.ValidationError:
		return http.StatusBadRequest
	case domain.AuthenticationError:
		return http.StatusUnauthorized
	case domain.AuthorizationError:
		return http.StatusForbidden
	case domain.NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// TextError writes a plain-text error body for page handlers and logs the
// full error server-side.
func TextError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusForError(err)

	message := "Internal server error"
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	if logger != nil {
		logger.Error("Request failed",
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error())
	}

	c.String(status, message)
	c.Abort()
}

// SuccessResponse returns a standardized success response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse returns a standardized JSON error response.
func ErrorResponse(c *gin.Context, err error) {
	status := StatusForError(err)

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"type":    domainErr.Type,
				"code":    domainErr.Code,
				"message": domainErr.Message,
			},
		})
		return
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"type":    domain.InternalError,
			"code":    "SYSTEM_ERROR",
			"message": "An unexpected error occurred",
		},
	})
}
