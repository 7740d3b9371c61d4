package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service *application.UserService
}

func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req application.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateUser handles PATCH /users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req application.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": userID})
}
