package lexeme

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500

	sortByLexeme    = "lexeme"
	sortByCreatedAt = "created_at"
	sortByUpdatedAt = "updated_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f domain.LexemeFilter) domain.LexemeFilter {
	switch f.SortBy {
	case sortByLexeme, sortByCreatedAt, sortByUpdatedAt:
	default:
		f.SortBy = sortByLexeme
	}

	f.SortOrder = strings.ToUpper(f.SortOrder)
	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
	default:
		f.SortOrder = sortOrderASC
	}

	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case sortByCreatedAt:
		return "created_at"
	case sortByUpdatedAt:
		return "updated_at"
	default:
		return "lexeme_normalized"
	}
}

// conditions translates the filter into a WHERE clause.
func conditions(f domain.LexemeFilter) squirrel.And {
	where := squirrel.And{}

	if f.Query != nil {
		if q := domain.NormalizeText(*f.Query); q != "" {
			pattern := postgres.EscapeLike(q) + "%"
			if f.Contains {
				pattern = "%" + pattern
			}
			where = append(where, squirrel.Like{"lexeme_normalized": pattern})
		}
	}
	if f.Language != nil {
		where = append(where, squirrel.Eq{"language": *f.Language})
	}
	if f.POS != nil {
		where = append(where, squirrel.Eq{"pos": string(*f.POS)})
	}
	if f.Checked != nil {
		where = append(where, squirrel.Eq{"checked": *f.Checked})
	}
	if f.ImportedFrom != nil {
		where = append(where, squirrel.Eq{"imported_from": *f.ImportedFrom})
	}
	if f.Rhyme != nil {
		if key := domain.PhoneticKeysOf(*f.Rhyme).AssonanceRev; key != "" {
			where = append(where, squirrel.Like{"assonance_rev": postgres.EscapeLike(key) + "%"})
		}
	}

	return where
}
