package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	User      UserResponse      `json:"user"`
	Workspace WorkspaceResponse `json:"workspace"`
	IsNewUser bool              `json:"isNewUser"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Callback godoc
// @Summary Complete authentication
// @Description Called by the frontend after receiving an Auth0 token; creates the user and default workspace on first login
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCallbackResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
	}

	// Email is required for user creation
	if email == "" {
		log.Error().Str("auth0_id", auth0ID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}

	result, err := h.authService.AuthenticateUser(auth0ID, email, namePtr)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		User: UserResponse{
			ID:    result.User.ID.String(),
			Email: result.User.Email,
			Name:  result.User.Name,
		},
		Workspace: WorkspaceResponse{
			ID:   result.Workspace.ID,
			Name: result.Workspace.Name,
		},
		IsNewUser: result.IsNewUser,
	})
}

// Me godoc
// @Summary Get current user
// @Description Get the authenticated user and their workspace
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCallbackResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		log.Error().Str("auth0_id", auth0ID).Msg("No workspace ID in context")
		return NewInternalError(c, "Workspace not available")
	}

	user, err := h.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get user")
		return NewNotFoundError(c, "User not found")
	}

	workspace, err := h.authService.GetWorkspaceByID(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		User: UserResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
		},
		Workspace: WorkspaceResponse{
			ID:   workspace.ID,
			Name: workspace.Name,
		},
		IsNewUser: false,
	})
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout godoc
// @Summary Log out
// @Description Record the logout; Auth0 handles the actual session termination
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LogoutResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	log.Info().Str("auth0_id", auth0ID).Msg("User logged out")

	return c.JSON(http.StatusOK, LogoutResponse{
		Message: "Logged out successfully",
	})
}
