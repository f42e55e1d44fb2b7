package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anoexpected/stemhub-backend/internal/model"
)

// ActorRepository handles user data access.
type ActorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository creates a new ActorRepository.
func NewActorRepository(pool *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{pool: pool}
}

// Create inserts a new user with the given password hash. The role column
// defaults to student in the schema; it is passed explicitly so the
// create-admin tool can reuse this path.
func (r *ActorRepository) Create(ctx context.Context, a *model.Actor, passwordHash string) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.Email, a.FullName, passwordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves a user by id.
func (r *ActorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Actor, error) {
	a := &model.Actor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, role, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByEmail retrieves a user and their password hash for login.
func (r *ActorRepository) GetByEmail(ctx context.Context, email string) (*model.Actor, string, error) {
	a := &model.Actor{}
	var hash string
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.FullName, &hash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return a, hash, nil
}

// List retrieves users ordered by creation time with pagination.
func (r *ActorRepository) List(ctx context.Context, limit, offset int) ([]model.Actor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, email, full_name, role, created_at, updated_at
		 FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var actors []model.Actor
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		actors = append(actors, a)
	}
	return actors, total, rows.Err()
}

// UpdateRole changes a user's role. Admin-only at the service layer.
func (r *ActorRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
