package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoexpected/stemhub-backend/internal/middleware"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
	"github.com/anoexpected/stemhub-backend/internal/validator"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a new student account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		failRegister(c, err)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": actor, "token": token})
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": actor, "token": token})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the full profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.userService.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.RevokeSession(c.Request.Context(), actor.ID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// failRegister maps registration errors, distinguishing the duplicate
// email case from generic failures.
func failRegister(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrDuplicate) {
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
		return
	}
	failFromErr(c, err)
}
