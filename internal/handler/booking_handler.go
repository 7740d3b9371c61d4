package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.SharerUserMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.DecideBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DecideBooking handles PATCH /bookings/:id?approved=.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.DecideBooking(c.Request.Context(), bookingID, userID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBookerBookings handles GET /bookings.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	h.list(c, h.service.ListBookerBookings)
}

// ListOwnerBookings handles GET /bookings/owner.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListOwnerBookings)
}

type bookingLister func(ctx context.Context, actorID int64, state string, from, size int) ([]application.BookingDTO, error)

func (h *BookingHandler) list(c *gin.Context, lister bookingLister) {
	userID, _ := middleware.GetUserID(c)
	from, size, err := parsePaging(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := lister(c.Request.Context(), userID, c.DefaultQuery("state", "ALL"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
