package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamereviews/internal/auth"
	"gamereviews/internal/model"
	"gamereviews/internal/policy"
	"gamereviews/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"max=100"`
	Password string `json:"password" validate:"max=256"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Username and password"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := bindCredentials(c, &req); err != nil {
		return err
	}

	token, message, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, Message: message})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Username and password"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := bindCredentials(c, &req); err != nil {
		return err
	}

	token, message, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, Message: message})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if err := policy.RequireRole(p, policy.ActionLogout, model.RoleUser, model.RoleAdmin); err != nil {
		return fail(err)
	}

	if err := h.authService.Logout(c.Request().Context(), p); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: service.MsgLoggedOut})
}
