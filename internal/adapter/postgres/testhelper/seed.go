package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdd/verdd-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an editor account. The password hash is not a valid
// bcrypt hash; use the auth service when a login is needed.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "editor-" + suffix + "@example.com",
		Username:     "editor-" + suffix,
		PasswordHash: "x",
		Role:         domain.RoleEditor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedLexeme inserts a lexeme with a unique headword derived from text.
// The returned headword carries the random suffix so repeated calls never
// conflict on the natural key.
func SeedLexeme(t *testing.T, pool *pgxpool.Pool, text, language string, pos domain.PartOfSpeech) domain.Lexeme {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	l := domain.Lexeme{
		ID:        uuid.New(),
		Lexeme:    text + uniqueSuffix(),
		Language:  language,
		POS:       pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.DerivePhonetics()

	_, err := pool.Exec(ctx,
		`INSERT INTO lexemes (id, lexeme, lexeme_normalized, homonym_id, language, pos,
		    assonance, assonance_rev, consonance, consonance_rev, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.Lexeme, domain.NormalizeText(l.Lexeme), l.Language, string(l.POS),
		l.Assonance, l.AssonanceRev, l.Consonance, l.ConsonanceRev, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLexeme: %v", err)
	}

	return l
}

// SeedRelation links two lexemes with a relation of the given type.
func SeedRelation(t *testing.T, pool *pgxpool.Pool, from, to uuid.UUID, typ domain.RelationType) domain.Relation {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r := domain.Relation{
		ID:           uuid.New(),
		LexemeFromID: from,
		LexemeToID:   to,
		Type:         typ,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO relations (id, lexeme_from_id, lexeme_to_id, type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.LexemeFromID, r.LexemeToID, string(r.Type), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRelation: %v", err)
	}

	return r
}
