package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// RequestHandler handles HTTP requests for the item-request board.
type RequestHandler struct {
	service *application.RequestService
}

func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.SharerUserMiddleware())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:id", h.GetRequest)
	}
}

// CreateRequest handles POST /requests.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var req application.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOwnRequests handles GET /requests.
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	result, err := h.service.ListOwnRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOtherRequests handles GET /requests/all.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	from, size, err := parsePaging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.ListOtherRequests(c.Request.Context(), userID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRequest handles GET /requests/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	requestID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
