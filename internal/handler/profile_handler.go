package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse represents the profile response
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateProfileRequest represents the update profile request
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func (h *ProfileHandler) toProfileResponse(c echo.Context, user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: h.profileService.AvatarURL(c.Request().Context(), user),
	}
}

// GetProfile godoc
// @Summary Get profile
// @Description Get the authenticated user's profile, including a temporary avatar URL
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(auth0ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, h.toProfileResponse(c, user))
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Update the authenticated user's display name
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile update request"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if len(name) > domain.MaxTitleLength {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	}

	user, err := h.profileService.UpdateProfile(auth0ID, name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is invalid"},
			})
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Str("auth0_id", auth0ID).Str("name", name).Msg("Profile updated")

	return c.JSON(http.StatusOK, h.toProfileResponse(c, user))
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Description Upload a new avatar image (JPEG, PNG or WebP, max 5MB); replaces any existing avatar
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "Avatar file is required", []ValidationError{
			{Field: "avatar", Message: "Must be a multipart file field named 'avatar'"},
		})
	}

	if fileHeader.Size > service.MaxAvatarSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "avatar", Message: "File too large. Maximum size is 5MB"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to open uploaded avatar")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to read uploaded avatar")
		return NewInternalError(c, "Failed to read uploaded file")
	}

	user, err := h.profileService.UpdateAvatar(c.Request().Context(), auth0ID, data, fileHeader.Filename)
	if err != nil {
		if fieldErr := avatarFieldError(err); fieldErr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
		}
		if errors.Is(err, service.ErrAvatarStorageNotConfigured) {
			return NewInternalError(c, "Avatar storage is not configured")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to upload avatar")
		return NewInternalError(c, "Failed to upload avatar")
	}

	log.Info().Str("auth0_id", auth0ID).Msg("Avatar uploaded")

	return c.JSON(http.StatusOK, h.toProfileResponse(c, user))
}

// DeleteAvatar godoc
// @Summary Delete avatar
// @Description Remove the authenticated user's avatar
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profile/avatar [delete]
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.RemoveAvatar(c.Request().Context(), auth0ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to delete avatar")
		return NewInternalError(c, "Failed to delete avatar")
	}

	return c.JSON(http.StatusOK, h.toProfileResponse(c, user))
}

// DeleteAccount godoc
// @Summary Delete account
// @Description Permanently delete the authenticated user's account, workspace and data
// @Tags profile
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profile [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.profileService.DeleteAccount(c.Request().Context(), auth0ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	return c.NoContent(http.StatusNoContent)
}

// avatarFieldError maps avatar validation errors to a field error, or nil.
func avatarFieldError(err error) *ValidationError {
	switch {
	case errors.Is(err, service.ErrAvatarTooLarge):
		return &ValidationError{Field: "avatar", Message: "File too large. Maximum size is 5MB"}
	case errors.Is(err, service.ErrAvatarInvalidFormat):
		return &ValidationError{Field: "avatar", Message: "Invalid format. Supported: JPEG, PNG, WebP"}
	case errors.Is(err, service.ErrAvatarTooSmall):
		return &ValidationError{Field: "avatar", Message: "Image too small. Minimum 50x50 pixels"}
	case errors.Is(err, service.ErrAvatarInvalidData):
		return &ValidationError{Field: "avatar", Message: "File is not a valid image"}
	}
	return nil
}
