package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anoexpected/stemhub-backend/internal/middleware"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
	"github.com/anoexpected/stemhub-backend/internal/validator"
)

// UserHandler handles admin user management endpoints.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor := middleware.GetActor(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	users, pagination, err := h.userService.List(c.Request.Context(), actor, page, perPage)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"users": users}, pagination)
}

// UpdateUserRole godoc
// PUT /api/v1/admin/users/:user_id/role
// Changes a user's role and revokes their active session.
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	actor := middleware.GetActor(c)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), actor, userID, model.Role(req.Role))
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
