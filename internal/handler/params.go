package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

const (
	defaultFrom = 0
	defaultSize = 20
	maxSize     = 100
)

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("invalid " + name + ": " + c.Param(name))
	}
	return id, nil
}

// parsePaging extracts from and size query parameters with defaults.
func parsePaging(c *gin.Context) (int, int, error) {
	from, err := strconv.Atoi(c.DefaultQuery("from", strconv.Itoa(defaultFrom)))
	if err != nil {
		return 0, 0, domain.NewValidationError("from must be an integer")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil {
		return 0, 0, domain.NewValidationError("size must be an integer")
	}
	if from < 0 {
		return 0, 0, domain.NewValidationError("from must not be negative")
	}
	if size < 1 || size > maxSize {
		return 0, 0, domain.NewValidationError("size must be between 1 and 100")
	}
	return from, size, nil
}
