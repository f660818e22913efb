package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/mfgerp/backend/internal/application/identity"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @ID           registerUser
// @Summary      Register a user
// @Description  Creates an account and returns a token pair. The first account becomes ADMIN.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterInput true "Registration"
// @Success      201 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterInput
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @ID           loginUser
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Credentials"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshInput true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshInput
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	user, err := h.authService.Me(c.Request.Context(), *userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
