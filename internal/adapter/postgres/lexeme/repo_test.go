package lexeme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/verdd/verdd-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func mockRows(lexemes ...domain.Lexeme) *pgxmock.Rows {
	rows := pgxmock.NewRows(columns)
	for _, l := range lexemes {
		rows.AddRow(
			l.ID, l.Lexeme, l.HomonymID, l.Language, string(l.POS), l.Contlex, l.Type,
			l.LemmaID, l.InflexID, l.InflexType, l.Specification, l.Notes,
			l.Assonance, l.AssonanceRev, l.Consonance, l.ConsonanceRev,
			l.Checked, l.ImportedFrom, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
		)
	}
	return rows
}

func sampleLexeme() domain.Lexeme {
	now := time.Now().UTC()
	l := domain.Lexeme{
		ID:        uuid.New(),
		Lexeme:    "kuõll",
		Language:  "sms",
		POS:       domain.PartOfSpeechNoun,
		Contlex:   "N_KUOLL",
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.DerivePhonetics()
	return l
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()

	want := sampleLexeme()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM lexemes WHERE id = \$1`).
					WithArgs(want.ID.String()).
					WillReturnRows(mockRows(want))
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM lexemes`).
					WithArgs(want.ID.String()).
					WillReturnRows(mockRows())
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			got, err := repo.GetByID(context.Background(), want.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetByID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByID() unexpected error: %v", err)
			}
			if got.ID != want.ID || got.Lexeme != "kuõll" || got.POS != domain.PartOfSpeechNoun {
				t.Errorf("GetByID() = %+v", got)
			}
			if got.Consonance != "kll" {
				t.Errorf("consonance = %q, want kll", got.Consonance)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRepo_Find_PrefixQueryAndCount(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	l := sampleLexeme()
	q := "  KUÕ "
	lang := "sms"

	mock.ExpectQuery(`SELECT count\(\*\) FROM lexemes WHERE \(lexeme_normalized LIKE \$1 AND language = \$2\)`).
		WithArgs("kuõ%", "sms").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM lexemes WHERE .* ORDER BY lexeme_normalized ASC, homonym_id ASC, id ASC LIMIT 50 OFFSET 0`).
		WithArgs("kuõ%", "sms").
		WillReturnRows(mockRows(l))

	items, total, err := repo.Find(context.Background(), domain.LexemeFilter{Query: &q, Language: &lang})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("Find() total=%d len=%d, want 1/1", total, len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepo_Find_ZeroTotalSkipsSelect(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM lexemes`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.Find(context.Background(), domain.LexemeFilter{})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("Find() = %d items, total %d", len(items), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM lexemes WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRepo_SetChecked(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE lexemes SET checked = \$1, updated_at = now\(\) WHERE id IN \(\$2,\$3\) AND checked <> \$4`).
		WithArgs(true, a, b, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := repo.SetChecked(context.Background(), []uuid.UUID{a, b}, true)
	if err != nil {
		t.Fatalf("SetChecked() error: %v", err)
	}
	if n != 2 {
		t.Errorf("SetChecked() = %d, want 2", n)
	}
}

func TestRepo_SetChecked_EmptyIsNoop(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	n, err := repo.SetChecked(context.Background(), nil, true)
	if err != nil || n != 0 {
		t.Fatalf("SetChecked(nil) = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestNormalizeFilter(t *testing.T) {
	t.Parallel()

	f := normalizeFilter(domain.LexemeFilter{SortBy: "bogus", SortOrder: "desc", Limit: 10000, Offset: -3})
	if f.SortBy != sortByLexeme || f.SortOrder != sortOrderDESC || f.Limit != MaxLimit || f.Offset != 0 {
		t.Errorf("normalizeFilter() = %+v", f)
	}
}

func TestConditions_RhymeUsesReversedAssonance(t *testing.T) {
	t.Parallel()

	rhyme := "talo"
	sql, args, err := conditions(domain.LexemeFilter{Rhyme: &rhyme}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if sql != "(assonance_rev LIKE ?)" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != "oa%" {
		t.Errorf("args = %v", args)
	}
}

func TestConditions_ContainsEscapesWildcards(t *testing.T) {
	t.Parallel()

	q := "50%"
	_, args, err := conditions(domain.LexemeFilter{Query: &q, Contains: true}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 1 || args[0] != `%50\%%` {
		t.Errorf("args = %v", args)
	}
}
