package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, user_id, name, created_at, updated_at`

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

// GetByUserID retrieves a user's workspace
func (r *WorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE user_id = $1`,
		pgtype.UUID{Bytes: userID, Valid: true})
	return scanWorkspace(row)
}

// GetByUserAuth0ID retrieves a workspace by the owning user's Auth0 ID
func (r *WorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT w.id, w.user_id, w.name, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN users u ON u.id = w.user_id
		 WHERE u.auth0_id = $1`, auth0ID)
	return scanWorkspace(row)
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO workspaces (user_id, name)
		 VALUES ($1, $2)
		 RETURNING `+workspaceColumns,
		pgtype.UUID{Bytes: workspace.UserID, Valid: true}, workspace.Name)
	return scanWorkspace(row)
}

// Delete removes a workspace and, via FK cascade, its transactions
func (r *WorkspaceRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var (
		id        int32
		userID    pgtype.UUID
		name      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &name, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &domain.Workspace{
		ID:        id,
		UserID:    uuid.UUID(userID.Bytes),
		Name:      name,
		CreatedAt: createdAt.Time,
		UpdatedAt: updatedAt.Time,
	}, nil
}
