package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lexeme is a dictionary headword in one language.
type Lexeme struct {
	ID            uuid.UUID
	Lexeme        string
	HomonymID     int
	Language      string
	POS           PartOfSpeech
	Contlex       string
	Type          string
	LemmaID       string
	InflexID      string
	InflexType    string
	Specification string
	Notes         string
	Assonance     string
	AssonanceRev  string
	Consonance    string
	ConsonanceRev string
	Checked       bool
	ImportedFrom  string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Loaded on demand by GetLexeme.
	RelationsFrom []Relation
	RelationsTo   []Relation
	Examples      []Example
	Stems         []Stem
	MiniParadigms []MiniParadigm
	Affiliations  []Affiliation
}

// Key returns the natural key used for deduplication during imports.
func (l *Lexeme) Key() LexemeKey {
	return LexemeKey{
		Lexeme:    l.Lexeme,
		HomonymID: l.HomonymID,
		Language:  l.Language,
		POS:       l.POS,
	}
}

// DerivePhonetics recomputes assonance/consonance keys from the headword.
func (l *Lexeme) DerivePhonetics() {
	keys := PhoneticKeysOf(l.Lexeme)
	l.Assonance = keys.Assonance
	l.AssonanceRev = keys.AssonanceRev
	l.Consonance = keys.Consonance
	l.ConsonanceRev = keys.ConsonanceRev
}

// LexemeKey identifies a lexeme without its database id.
type LexemeKey struct {
	Lexeme    string
	HomonymID int
	Language  string
	POS       PartOfSpeech
}

// Normalized returns the key with the headword in lookup form.
func (k LexemeKey) Normalized() LexemeKey {
	k.Lexeme = NormalizeText(k.Lexeme)
	return k
}

// Example is a usage example attached to a lexeme.
type Example struct {
	ID        uuid.UUID
	LexemeID  uuid.UUID
	Text      string
	Source    string
	CreatedAt time.Time
}

// Stem is a stem variant used by the morphological transducers.
type Stem struct {
	ID        uuid.UUID
	LexemeID  uuid.UUID
	Text      string
	HomonymID int
	Contlex   string
	Notes     string
	Order     int
	CreatedAt time.Time
}

// MiniParadigm is a hand-curated word form for one morphosyntactic description.
type MiniParadigm struct {
	ID        uuid.UUID
	LexemeID  uuid.UUID
	MSD       string
	Wordform  string
	CreatedAt time.Time
}

// Affiliation links a lexeme to an external resource such as a TermWiki page.
type Affiliation struct {
	ID        uuid.UUID
	LexemeID  uuid.UUID
	Title     string
	Link      string
	Type      AffiliationType
	Checked   bool
	CreatedAt time.Time
}
