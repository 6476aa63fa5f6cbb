package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/testutil"
)

// makePNG renders a small test image of the given dimensions
func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessAndUpload_Success(t *testing.T) {
	repo := testutil.NewMockAvatarRepository()
	svc := NewAvatarService(repo)

	data := makePNG(t, 400, 400)
	path, err := svc.ProcessAndUpload(context.Background(), "auth0|abc123", data, "avatar.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(path, "avatars/auth0_abc123/") {
		t.Errorf("Expected object path under avatars/auth0_abc123/, got %s", path)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Errorf("Expected .jpg object, got %s", path)
	}
	if _, ok := repo.Objects[path]; !ok {
		t.Error("Expected object to be stored")
	}
}

func TestProcessAndUpload_SmallImageNotUpscaled(t *testing.T) {
	repo := testutil.NewMockAvatarRepository()
	svc := NewAvatarService(repo)

	data := makePNG(t, 100, 100)
	if _, err := svc.ProcessAndUpload(context.Background(), "auth0|abc", data, "avatar.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestProcessAndUpload_ValidationErrors(t *testing.T) {
	repo := testutil.NewMockAvatarRepository()
	svc := NewAvatarService(repo)
	ctx := context.Background()

	t.Run("too large", func(t *testing.T) {
		data := make([]byte, MaxAvatarSize+1)
		if _, err := svc.ProcessAndUpload(ctx, "auth0|abc", data, "big.jpg"); err != ErrAvatarTooLarge {
			t.Errorf("Expected ErrAvatarTooLarge, got %v", err)
		}
	})

	t.Run("bad extension", func(t *testing.T) {
		data := makePNG(t, 100, 100)
		if _, err := svc.ProcessAndUpload(ctx, "auth0|abc", data, "avatar.gif"); err != ErrAvatarInvalidFormat {
			t.Errorf("Expected ErrAvatarInvalidFormat, got %v", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		if _, err := svc.ProcessAndUpload(ctx, "auth0|abc", []byte("not an image"), "avatar.png"); err != ErrAvatarInvalidData {
			t.Errorf("Expected ErrAvatarInvalidData, got %v", err)
		}
	})

	t.Run("too small", func(t *testing.T) {
		data := makePNG(t, 10, 10)
		if _, err := svc.ProcessAndUpload(ctx, "auth0|abc", data, "avatar.png"); err != ErrAvatarTooSmall {
			t.Errorf("Expected ErrAvatarTooSmall, got %v", err)
		}
	})
}

func TestAvatarService_NotConfigured(t *testing.T) {
	svc := NewAvatarService(nil)

	if svc.IsEnabled() {
		t.Error("Expected service without storage to be disabled")
	}
	if _, err := svc.ProcessAndUpload(context.Background(), "auth0|abc", nil, "a.png"); err != ErrAvatarStorageNotConfigured {
		t.Errorf("Expected ErrAvatarStorageNotConfigured, got %v", err)
	}
	if _, err := svc.PresignURL(context.Background(), "some/path.jpg"); err != ErrAvatarStorageNotConfigured {
		t.Errorf("Expected ErrAvatarStorageNotConfigured, got %v", err)
	}
}

func TestAvatarDelete_EmptyPathNoop(t *testing.T) {
	svc := NewAvatarService(testutil.NewMockAvatarRepository())

	if err := svc.Delete(context.Background(), ""); err != nil {
		t.Errorf("Expected nil for empty path, got %v", err)
	}
}
