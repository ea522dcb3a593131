package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepforge/cbt-backend/internal/model"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, role, email, hashed_password, full_name, institution, study_level, is_active, registered_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Role, &u.Email, &u.HashedPassword, &u.FullName,
		&u.Institution, &u.StudyLevel, &u.IsActive, &u.RegisteredAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user and backfills ID and registration timestamp.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (role, email, hashed_password, full_name, institution, study_level)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_active, registered_at`,
		u.Role, u.Email, u.HashedPassword, u.FullName, u.Institution, u.StudyLevel,
	).Scan(&u.ID, &u.IsActive, &u.RegisteredAt)
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// List retrieves users ordered by registration, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY registered_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateLastLogin stamps the user's last successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET hashed_password = $1 WHERE id = $2`, hashed, id)
	return err
}

// Update applies a typed patch. Each patch field maps to a fixed column.
// Returns the number of rows updated.
func (r *UserRepository) Update(ctx context.Context, id int64, patch *model.UserPatch, hashedPassword *string) (int64, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if hashedPassword != nil {
		add("hashed_password", *hashedPassword)
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Role != nil {
		add("role", model.NormalizeRole(*patch.Role))
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Institution != nil {
		add("institution", *patch.Institution)
	}
	if patch.StudyLevel != nil {
		add("study_level", *patch.StudyLevel)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
