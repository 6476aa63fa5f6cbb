package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/repository/storage"
)

const (
	MaxAvatarSize   = 5 * 1024 * 1024 // 5MB
	MinAvatarWidth  = 50
	MinAvatarHeight = 50
	AvatarWidth     = 256
	JPEGQuality     = 85

	// PresignExpiry is how long generated avatar URLs stay valid
	PresignExpiry = 15 * time.Minute
)

var (
	ErrAvatarTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrAvatarInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrAvatarTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrAvatarInvalidData          = errors.New("invalid image data")
	ErrAvatarStorageNotConfigured = errors.New("avatar storage not configured")
)

// allowedExtensions maps extensions to content types
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarService processes and stores user avatars. Uploads are resized to a
// single square-ish variant and re-encoded as JPEG.
type AvatarService struct {
	storage storage.AvatarRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage storage.AvatarRepository) *AvatarService {
	return &AvatarService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ProcessAndUpload validates, resizes and stores an avatar, returning the
// stored object path.
func (s *AvatarService) ProcessAndUpload(ctx context.Context, auth0ID string, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	processed := img
	if img.Bounds().Dx() > AvatarWidth {
		// Resize maintaining aspect ratio
		processed = imaging.Resize(img, AvatarWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	objectPath := fmt.Sprintf("avatars/%s/%s.jpg", sanitizeAuth0ID(auth0ID), uuid.New().String())

	path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return path, nil
}

// Delete removes a stored avatar object
func (s *AvatarService) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrAvatarStorageNotConfigured
	}
	return s.storage.Delete(ctx, objectPath)
}

// PresignURL returns a temporary URL for a stored avatar object
func (s *AvatarService) PresignURL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, PresignExpiry)
}

// validateAndDecode validates the image and returns the decoded image
func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrAvatarInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrAvatarInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinAvatarWidth || bounds.Dy() < MinAvatarHeight {
		return nil, ErrAvatarTooSmall
	}

	return img, nil
}

// sanitizeAuth0ID makes an Auth0 subject safe for use in object paths
// (subjects look like "auth0|abc123").
func sanitizeAuth0ID(auth0ID string) string {
	return strings.NewReplacer("|", "_", "/", "_").Replace(auth0ID)
}
