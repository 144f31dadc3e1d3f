// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

var columns = []string{"id", "email", "username", "password_hash", "role", "created_at", "updated_at"}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByEmail returns a user by email address (case-insensitive).
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Expr("lower(email) = lower(?)", email), email)
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username}, username)
}

// Create inserts a user. Duplicate email or username yields ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	sql, args, err := postgres.Builder().Insert("users").
		Columns(columns...).
		Values(u.ID, u.Email, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build query: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.User{}, postgres.MapError(err, "user", u.Username)
	}
	return row.toDomain(), nil
}

// UpdateRole changes a user's role.
func (r *Repo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Sqlizer, ref any) (*domain.User, error) {
	sql, args, err := postgres.Builder().Select(columns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", ref)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user %v: %w", ref, domain.ErrNotFound)
	}
	u := rows[0].toDomain()
	return &u, nil
}
