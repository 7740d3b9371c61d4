package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// ItemHandler handles HTTP requests for the item catalog and comments.
type ItemHandler struct {
	service *application.ItemService
}

func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	items.Use(middleware.SharerUserMiddleware())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListOwnerItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:id", h.GetItem)
		items.PATCH("/:id", h.UpdateItem)
		items.POST("/:id/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem handles PATCH /items/:id.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem handles GET /items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.GetItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOwnerItems handles GET /items.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	result, err := h.service.ListOwnerItems(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchItems handles GET /items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	from, size, err := parsePaging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddComment handles POST /items/:id/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.AddComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
