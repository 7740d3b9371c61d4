package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// AdminBookingHandler exposes read-only booking reports.
type AdminBookingHandler struct {
	service *application.BookingService
}

func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes mounts GET /admin/stats/bookings.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.Group("/admin/stats").GET("/bookings", h.bookingStats)
}

func (h *AdminBookingHandler) bookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
