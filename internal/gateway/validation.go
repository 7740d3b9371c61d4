package gateway

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/timestamp"
)

const maxPageSize = 100

type bookingBody struct {
	ItemID int64          `json:"itemId" binding:"required"`
	Start  timestamp.Time `json:"start" binding:"required"`
	End    timestamp.Time `json:"end" binding:"required"`
}

func (b *bookingBody) validate(now time.Time) error {
	if b.Start.Std().Before(now.Truncate(time.Second)) {
		return errors.New("start must not be in the past")
	}
	if !b.End.Std().After(now) {
		return errors.New("end must be in the future")
	}
	return nil
}

type userCreateBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (b *userCreateBody) validate(time.Time) error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("name must not be blank")
	}
	return nil
}

type userUpdateBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (b *userUpdateBody) validate(time.Time) error { return nil }

type itemCreateBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

func (b *itemCreateBody) validate(time.Time) error {
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Description) == "" {
		return errors.New("name and description must not be blank")
	}
	return nil
}

type itemUpdateBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (b *itemUpdateBody) validate(time.Time) error { return nil }

type commentBody struct {
	Text string `json:"text" binding:"required"`
}

func (b *commentBody) validate(time.Time) error {
	if strings.TrimSpace(b.Text) == "" {
		return errors.New("text must not be blank")
	}
	return nil
}

type requestBody struct {
	Description string `json:"description" binding:"required"`
}

func (b *requestBody) validate(time.Time) error {
	if strings.TrimSpace(b.Description) == "" {
		return errors.New("description must not be blank")
	}
	return nil
}

func validateID(c *gin.Context) {
	if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err != nil || id < 1 {
		response.BadRequest(c, "invalid id: "+c.Param("id"))
		return
	}
	c.Next()
}

func validatePaging(c *gin.Context) {
	if raw, ok := c.GetQuery("from"); ok {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			response.BadRequest(c, "from must be a non-negative integer")
			return
		}
	}
	if raw, ok := c.GetQuery("size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			response.BadRequest(c, "size must be between 1 and 100")
			return
		}
	}
	c.Next()
}

func validateState(c *gin.Context) {
	if _, err := bookingDomain.ParseState(c.DefaultQuery("state", "ALL")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	c.Next()
}

func validateApproved(c *gin.Context) {
	if _, err := strconv.ParseBool(c.Query("approved")); err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}
	c.Next()
}
