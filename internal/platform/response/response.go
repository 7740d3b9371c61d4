// Package response writes JSON bodies and maps classified errors to HTTP statuses.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// Success writes data with 200 OK.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error writes err with the status that matches its kind. Unclassified errors become a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), gin.H{"error": appErr.Message})
}

// StatusFor returns the HTTP status for an error kind.
// Forbidden is reported as 404, same as a missing entity.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidState, domain.KindUnknownState:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindForbidden:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
