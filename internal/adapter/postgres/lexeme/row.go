package lexeme

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

const table = "lexemes"

var columns = []string{
	"id", "lexeme", "homonym_id", "language", "pos", "contlex", "type",
	"lemma_id", "inflex_id", "inflex_type", "specification", "notes",
	"assonance", "assonance_rev", "consonance", "consonance_rev",
	"checked", "imported_from", "created_by", "created_at", "updated_at",
}

// insertColumns are the written columns: every selected column plus the
// lookup form of the headword.
var insertColumns = append(append([]string{}, columns...), "lexeme_normalized")

type row struct {
	ID            uuid.UUID  `db:"id"`
	Lexeme        string     `db:"lexeme"`
	HomonymID     int        `db:"homonym_id"`
	Language      string     `db:"language"`
	POS           string     `db:"pos"`
	Contlex       string     `db:"contlex"`
	Type          string     `db:"type"`
	LemmaID       string     `db:"lemma_id"`
	InflexID      string     `db:"inflex_id"`
	InflexType    string     `db:"inflex_type"`
	Specification string     `db:"specification"`
	Notes         string     `db:"notes"`
	Assonance     string     `db:"assonance"`
	AssonanceRev  string     `db:"assonance_rev"`
	Consonance    string     `db:"consonance"`
	ConsonanceRev string     `db:"consonance_rev"`
	Checked       bool       `db:"checked"`
	ImportedFrom  string     `db:"imported_from"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r row) toDomain() domain.Lexeme {
	return domain.Lexeme{
		ID:            r.ID,
		Lexeme:        r.Lexeme,
		HomonymID:     r.HomonymID,
		Language:      r.Language,
		POS:           domain.PartOfSpeech(r.POS),
		Contlex:       r.Contlex,
		Type:          r.Type,
		LemmaID:       r.LemmaID,
		InflexID:      r.InflexID,
		InflexType:    r.InflexType,
		Specification: r.Specification,
		Notes:         r.Notes,
		Assonance:     r.Assonance,
		AssonanceRev:  r.AssonanceRev,
		Consonance:    r.Consonance,
		ConsonanceRev: r.ConsonanceRev,
		Checked:       r.Checked,
		ImportedFrom:  r.ImportedFrom,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toDomain(rows []row) []domain.Lexeme {
	out := make([]domain.Lexeme, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

// insertValues returns the values matching insertColumns.
func insertValues(l domain.Lexeme) []any {
	return []any{
		l.ID, l.Lexeme, l.HomonymID, l.Language, string(l.POS), l.Contlex, l.Type,
		l.LemmaID, l.InflexID, l.InflexType, l.Specification, l.Notes,
		l.Assonance, l.AssonanceRev, l.Consonance, l.ConsonanceRev,
		l.Checked, l.ImportedFrom, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
		domain.NormalizeText(l.Lexeme),
	}
}
