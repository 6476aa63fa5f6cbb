package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, avatar_path, created_at, updated_at`

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true})
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// Create creates a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (auth0_id, email, name)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		user.Auth0ID, user.Email, stringPtrToPgText(user.Name))
	return scanUser(row)
}

// UpdateName updates only the user's name by Auth0 ID
func (r *UserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET name = $2, updated_at = now()
		 WHERE auth0_id = $1
		 RETURNING `+userColumns,
		auth0ID, name)
	return scanUser(row)
}

// UpdateAvatarPath updates the user's stored avatar object path by Auth0 ID.
// Passing nil clears the avatar.
func (r *UserRepository) UpdateAvatarPath(auth0ID string, avatarPath *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET avatar_path = $2, updated_at = now()
		 WHERE auth0_id = $1
		 RETURNING `+userColumns,
		auth0ID, stringPtrToPgText(avatarPath))
	return scanUser(row)
}

// CreateOrGetByAuth0ID creates a new user or returns existing one (upsert on login)
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (auth0_id, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
		 RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name))
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user row permanently
func (r *UserRepository) Delete(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM users WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Helper functions

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id         pgtype.UUID
		auth0ID    string
		email      string
		name       pgtype.Text
		avatarPath pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &auth0ID, &email, &name, &avatarPath, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.User{
		ID:         uuid.UUID(id.Bytes),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       pgTextToStringPtr(name),
		AvatarPath: pgTextToStringPtr(avatarPath),
		CreatedAt:  createdAt.Time,
		UpdatedAt:  updatedAt.Time,
	}, nil
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
