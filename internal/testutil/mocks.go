package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// UpdateAvatarPath updates the user's avatar object path by Auth0 ID
func (m *MockUserRepository) UpdateAvatarPath(auth0ID string, avatarPath *string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.AvatarPath = avatarPath
	return user, nil
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// Delete removes a user by ID
func (m *MockUserRepository) Delete(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(m.ByID, id)
	delete(m.Users, user.Auth0ID)
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByUserID      map[uuid.UUID]*domain.Workspace
	ByUserAuth0ID map[string]*domain.Workspace
	NextID        int32
	GetByUserIDFn func(userID uuid.UUID) (*domain.Workspace, error)
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:    make(map[int32]*domain.Workspace),
		ByUserID:      make(map[uuid.UUID]*domain.Workspace),
		ByUserAuth0ID: make(map[string]*domain.Workspace),
		NextID:        1,
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserID retrieves a workspace by user ID
func (m *MockWorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(userID)
	}
	if ws, ok := m.ByUserID[userID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserAuth0ID retrieves a workspace by user's Auth0 ID
func (m *MockWorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Create creates a new workspace
func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = m.NextID
	m.NextID++
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	return workspace, nil
}

// Delete deletes a workspace by ID
func (m *MockWorkspaceRepository) Delete(id int32) error {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil
	}
	delete(m.Workspaces, id)
	delete(m.ByUserID, ws.UserID)
	for auth0ID, w := range m.ByUserAuth0ID {
		if w.ID == id {
			delete(m.ByUserAuth0ID, auth0ID)
		}
	}
	return nil
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace, auth0ID string) {
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	if auth0ID != "" {
		m.ByUserAuth0ID[auth0ID] = workspace
	}
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(workspaceID int32) ([]*domain.Transaction, error)
	UpdateFn     func(workspaceID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error)
	SoftDeleteFn func(workspaceID int32, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now().UTC()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID within a workspace
func (m *MockTransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.WorkspaceID != workspaceID || transaction.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// ListByWorkspace returns the workspace's live transactions ordered by date descending
func (m *MockTransactionRepository) ListByWorkspace(workspaceID int32) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(workspaceID)
	}
	out := make([]*domain.Transaction, 0)
	for _, transaction := range m.Transactions {
		if transaction.WorkspaceID == workspaceID && transaction.DeletedAt == nil {
			out = append(out, transaction)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// Update applies a partial update to a transaction
func (m *MockTransactionRepository) Update(workspaceID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(workspaceID, id, data)
	}
	transaction, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if data.Title != nil {
		transaction.Title = *data.Title
	}
	if data.Amount != nil {
		transaction.Amount = *data.Amount
	}
	if data.Type != nil {
		transaction.Type = *data.Type
	}
	if data.Category != nil {
		transaction.Category = *data.Category
	}
	if data.Date != nil {
		transaction.Date = *data.Date
	}
	transaction.UpdatedAt = time.Now().UTC()
	return transaction, nil
}

// SoftDelete marks a transaction as deleted
func (m *MockTransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(workspaceID, id)
	}
	transaction, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	transaction.DeletedAt = &now
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
		m.NextID++
	} else if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

// MockAvatarRepository is an in-memory mock of storage.AvatarRepository
type MockAvatarRepository struct {
	Objects  map[string][]byte
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
}

// NewMockAvatarRepository creates a new MockAvatarRepository
func NewMockAvatarRepository() *MockAvatarRepository {
	return &MockAvatarRepository{Objects: make(map[string][]byte)}
}

// Upload stores the object in memory
func (m *MockAvatarRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

// Delete removes the object
func (m *MockAvatarRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockAvatarRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if _, ok := m.Objects[objectPath]; !ok {
		return "", fmt.Errorf("object not found: %s", objectPath)
	}
	return "https://storage.test/" + objectPath, nil
}

// MockEventPublisher records published WebSocket events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent pairs an event with the workspace it was published to
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
