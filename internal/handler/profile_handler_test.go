package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/testutil"
)

type profileFixture struct {
	handler       *ProfileHandler
	userRepo      *testutil.MockUserRepository
	workspaceRepo *testutil.MockWorkspaceRepository
	avatarRepo    *testutil.MockAvatarRepository
}

func newProfileFixture() *profileFixture {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	avatarRepo := testutil.NewMockAvatarRepository()
	avatarService := service.NewAvatarService(avatarRepo)
	profileService := service.NewProfileService(userRepo, workspaceRepo, avatarService, nil)
	return &profileFixture{
		handler:       NewProfileHandler(profileService),
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		avatarRepo:    avatarRepo,
	}
}

func (f *profileFixture) addUser(auth0ID, email, name string) *domain.User {
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    &name,
	}
	f.userRepo.AddUser(user)
	f.workspaceRepo.AddWorkspace(&domain.Workspace{ID: 1, UserID: user.ID, Name: "Personal"}, auth0ID)
	return user
}

// pngBytes renders a solid-color PNG of the given size
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// multipartAvatar builds a multipart body with an avatar file field
func multipartAvatar(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestGetProfile_Success(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|profile", "test@example.com", "Test User")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|profile", "test@example.com", "Test User")

	err := f.handler.GetProfile(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Email != "test@example.com" {
		t.Errorf("Expected email 'test@example.com', got %s", response.Email)
	}
	if response.AvatarURL != nil {
		t.Errorf("Expected no avatar URL, got %v", *response.AvatarURL)
	}
}

func TestGetProfile_MissingAuth0ID(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Don't set up auth context

	err := f.handler.GetProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetProfile_UserNotFound(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|nonexistent", "test@example.com", "Test")

	err := f.handler.GetProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|update", "update@example.com", "Old Name")

	reqBody := `{"name": "New Name"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|update", "update@example.com", "Old Name")

	err := f.handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if *response.Name != "New Name" {
		t.Errorf("Expected name 'New Name', got '%s'", *response.Name)
	}
	if response.Email != "update@example.com" {
		t.Errorf("Expected email to remain 'update@example.com', got %s", response.Email)
	}
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|empty", "empty@example.com", "Name")

	reqBody := `{"name": "   "}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|empty", "empty@example.com", "Name")

	err := f.handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problemDetails.Type != ErrorTypeValidation {
		t.Errorf("Expected error type %s, got %s", ErrorTypeValidation, problemDetails.Type)
	}
}

func TestUpdateProfile_NameTooLong(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|long", "long@example.com", "Name")

	longName := strings.Repeat("a", 256)
	reqBody := `{"name": "` + longName + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|long", "long@example.com", "Name")

	err := f.handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUploadAvatar_Success(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|avatar", "avatar@example.com", "Avatar User")

	body, contentType := multipartAvatar(t, "me.png", pngBytes(t, 100, 100))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|avatar", "avatar@example.com", "Avatar User")

	err := f.handler.UploadAvatar(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.AvatarURL == nil {
		t.Fatal("Expected avatar URL in response")
	}
	if !strings.HasPrefix(*response.AvatarURL, "https://storage.test/avatars/") {
		t.Errorf("Unexpected avatar URL %s", *response.AvatarURL)
	}
	if len(f.avatarRepo.Objects) != 1 {
		t.Errorf("Expected 1 stored object, got %d", len(f.avatarRepo.Objects))
	}
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|replace", "replace@example.com", "Replace User")

	upload := func() {
		body, contentType := multipartAvatar(t, "me.png", pngBytes(t, 100, 100))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, "auth0|replace", "replace@example.com", "Replace User")
		if err := f.handler.UploadAvatar(c); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
	}

	upload()
	upload()

	// The first object must have been removed
	if len(f.avatarRepo.Objects) != 1 {
		t.Errorf("Expected 1 stored object after replacement, got %d", len(f.avatarRepo.Objects))
	}
}

func TestUploadAvatar_MissingFile(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|nofile", "nofile@example.com", "No File")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|nofile", "nofile@example.com", "No File")

	err := f.handler.UploadAvatar(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUploadAvatar_InvalidFormat(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|badext", "badext@example.com", "Bad Ext")

	body, contentType := multipartAvatar(t, "notes.txt", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|badext", "badext@example.com", "Bad Ext")

	err := f.handler.UploadAvatar(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "avatar" {
		t.Errorf("Expected an avatar field error, got %+v", problemDetails.Errors)
	}
}

func TestUploadAvatar_TooSmall(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|small", "small@example.com", "Small")

	body, contentType := multipartAvatar(t, "tiny.png", pngBytes(t, 20, 20))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|small", "small@example.com", "Small")

	err := f.handler.UploadAvatar(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteAvatar_Success(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|delavatar", "delavatar@example.com", "Del Avatar")

	// Upload first
	body, contentType := multipartAvatar(t, "me.png", pngBytes(t, 100, 100))
	uploadReq := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
	uploadReq.Header.Set("Content-Type", contentType)
	uploadRec := httptest.NewRecorder()
	uploadCtx := e.NewContext(uploadReq, uploadRec)
	setupAuthContext(uploadCtx, "auth0|delavatar", "delavatar@example.com", "Del Avatar")
	if err := f.handler.UploadAvatar(uploadCtx); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile/avatar", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|delavatar", "delavatar@example.com", "Del Avatar")

	err := f.handler.DeleteAvatar(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.AvatarURL != nil {
		t.Errorf("Expected no avatar URL after delete, got %v", *response.AvatarURL)
	}
	if len(f.avatarRepo.Objects) != 0 {
		t.Errorf("Expected no stored objects, got %d", len(f.avatarRepo.Objects))
	}
}

func TestDeleteAvatar_NoAvatar(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	f.addUser("auth0|noavatar", "noavatar@example.com", "No Avatar")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile/avatar", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|noavatar", "noavatar@example.com", "No Avatar")

	err := f.handler.DeleteAvatar(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestDeleteAccount_Success(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()
	user := f.addUser("auth0|goodbye", "goodbye@example.com", "Goodbye")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|goodbye", "goodbye@example.com", "Goodbye")

	err := f.handler.DeleteAccount(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}

	if _, err := f.userRepo.GetByID(user.ID); err == nil {
		t.Error("Expected user to be deleted")
	}
	if _, err := f.workspaceRepo.GetByID(1); err == nil {
		t.Error("Expected workspace to be deleted")
	}
}

func TestDeleteAccount_UserNotFound(t *testing.T) {
	e := echo.New()
	f := newProfileFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|ghost", "ghost@example.com", "Ghost")

	err := f.handler.DeleteAccount(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
