package storage

import (
	"context"
	"io"
	"time"
)

// AvatarRepository defines the interface for avatar object storage
type AvatarRepository interface {
	// Upload stores an object and returns its object path
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	// Delete removes an object
	Delete(ctx context.Context, objectPath string) error
	// GeneratePresignedURL returns a temporary GET URL for an object
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
