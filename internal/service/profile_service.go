package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/websocket"
)

// ProfileService handles profile-related business logic, including full
// account deletion
type ProfileService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
	avatarService *AvatarService
	publisher     websocket.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo domain.UserRepository,
	workspaceRepo domain.WorkspaceRepository,
	avatarService *AvatarService,
	publisher websocket.EventPublisher,
) *ProfileService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &ProfileService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		avatarService: avatarService,
		publisher:     publisher,
	}
}

// GetProfile retrieves a user's profile by Auth0 ID
func (s *ProfileService) GetProfile(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// UpdateProfile updates a user's display name by Auth0 ID
func (s *ProfileService) UpdateProfile(auth0ID string, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(name) > domain.MaxTitleLength {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.UpdateName(auth0ID, name)
	if err != nil {
		return nil, err
	}

	if workspace, wErr := s.workspaceRepo.GetByUserAuth0ID(auth0ID); wErr == nil {
		s.publisher.Publish(workspace.ID, websocket.ProfileUpdated(user))
	}

	return user, nil
}

// UpdateAvatar stores a new avatar for the user and replaces any previous one.
// The old object is removed best effort after the path swap succeeds.
func (s *ProfileService) UpdateAvatar(ctx context.Context, auth0ID string, data []byte, filename string) (*domain.User, error) {
	if !s.avatarService.IsEnabled() {
		return nil, ErrAvatarStorageNotConfigured
	}

	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return nil, err
	}
	oldPath := user.AvatarPath

	objectPath, err := s.avatarService.ProcessAndUpload(ctx, auth0ID, data, filename)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.UpdateAvatarPath(auth0ID, &objectPath)
	if err != nil {
		// Roll back the orphaned upload
		if delErr := s.avatarService.Delete(ctx, objectPath); delErr != nil {
			log.Warn().Err(delErr).Str("object_path", objectPath).Msg("Failed to clean up orphaned avatar")
		}
		return nil, err
	}

	if oldPath != nil && *oldPath != objectPath {
		if err := s.avatarService.Delete(ctx, *oldPath); err != nil {
			log.Warn().Err(err).Str("object_path", *oldPath).Msg("Failed to delete previous avatar")
		}
	}

	if workspace, wErr := s.workspaceRepo.GetByUserAuth0ID(auth0ID); wErr == nil {
		s.publisher.Publish(workspace.ID, websocket.ProfileUpdated(updated))
	}

	return updated, nil
}

// RemoveAvatar deletes the user's avatar object and clears the stored path.
// Removing an avatar that does not exist is a no-op.
func (s *ProfileService) RemoveAvatar(ctx context.Context, auth0ID string) (*domain.User, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return nil, err
	}
	if user.AvatarPath == nil {
		return user, nil
	}

	if s.avatarService.IsEnabled() {
		if err := s.avatarService.Delete(ctx, *user.AvatarPath); err != nil {
			log.Warn().Err(err).Str("auth0_id", auth0ID).Msg("Failed to delete avatar object")
		}
	}

	updated, err := s.userRepo.UpdateAvatarPath(auth0ID, nil)
	if err != nil {
		return nil, err
	}

	if workspace, wErr := s.workspaceRepo.GetByUserAuth0ID(auth0ID); wErr == nil {
		s.publisher.Publish(workspace.ID, websocket.ProfileUpdated(updated))
	}

	return updated, nil
}

// AvatarURL returns a presigned URL for the user's avatar, or nil when no
// avatar is set or storage is not configured.
func (s *ProfileService) AvatarURL(ctx context.Context, user *domain.User) *string {
	if user == nil || user.AvatarPath == nil || !s.avatarService.IsEnabled() {
		return nil
	}
	url, err := s.avatarService.PresignURL(ctx, *user.AvatarPath)
	if err != nil {
		log.Warn().Err(err).Str("object_path", *user.AvatarPath).Msg("Failed to presign avatar URL")
		return nil
	}
	return &url
}

// DeleteAccount removes the user's avatar, workspace and row. The storage
// delete is best effort; a stale object must not block account removal.
func (s *ProfileService) DeleteAccount(ctx context.Context, auth0ID string) error {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return err
	}

	if user.AvatarPath != nil && s.avatarService != nil {
		if err := s.avatarService.Delete(ctx, *user.AvatarPath); err != nil {
			log.Warn().Err(err).Str("auth0_id", auth0ID).Msg("Failed to delete avatar during account deletion")
		}
	}

	workspace, err := s.workspaceRepo.GetByUserAuth0ID(auth0ID)
	if err == nil {
		if err := s.workspaceRepo.Delete(workspace.ID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}

	log.Info().Str("auth0_id", auth0ID).Msg("Account deleted")
	return nil
}
