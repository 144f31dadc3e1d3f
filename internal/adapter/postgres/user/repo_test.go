package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdd/verdd-backend/internal/adapter/postgres/testhelper"
	"github.com/verdd/verdd-backend/internal/adapter/postgres/user"
	"github.com/verdd/verdd-backend/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

func makeUser(prefix string) domain.User {
	suffix := uuid.New().String()[:8]
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.User{
		ID:           uuid.New(),
		Email:        prefix + "-" + suffix + "@example.com",
		Username:     prefix + "-" + suffix,
		PasswordHash: "$2a$04$hash",
		Role:         domain.RoleEditor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	u := makeUser("create-happy")
	got, err := repo.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if got.ID != u.ID || got.Role != domain.RoleEditor || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("Create() = %+v", got)
	}

	byEmail, err := repo.GetByEmail(ctx, strings.ToUpper(u.Email))
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetByEmail id = %s, want %s", byEmail.ID, u.ID)
	}
}

func TestRepo_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	u1 := makeUser("dup")
	if _, err := repo.Create(ctx, u1); err != nil {
		t.Fatalf("Create first user: %v", err)
	}

	u2 := makeUser("dup")
	u2.Username = u1.Username
	_, err := repo.Create(ctx, u2)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_UpdateRole(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	u := makeUser("role")
	if _, err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateRole(ctx, u.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	got, err := repo.GetByUsername(ctx, u.Username)
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", got.Role)
	}
}
