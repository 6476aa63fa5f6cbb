package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace scopes a user's transactions. Every transaction belongs to exactly
// one workspace; the workspace id is the owner key used for visibility.
type Workspace struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id int32) (*Workspace, error)
	GetByUserID(userID uuid.UUID) (*Workspace, error)
	GetByUserAuth0ID(auth0ID string) (*Workspace, error)
	Create(workspace *Workspace) (*Workspace, error)
	Delete(id int32) error
}
