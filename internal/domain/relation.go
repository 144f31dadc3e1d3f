package domain

import (
	"time"

	"github.com/google/uuid"
)

// Relation is a directed link between two lexemes. Translation relations
// are treated as symmetric by the prediction graph.
type Relation struct {
	ID           uuid.UUID
	LexemeFromID uuid.UUID
	LexemeToID   uuid.UUID
	Type         RelationType
	Notes        string
	Checked      bool
	CreatedBy    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated by reads that join the linked lexemes.
	LexemeFrom *Lexeme
	LexemeTo   *Lexeme
	Examples   []RelationExample
	Sources    []Source
}

// RelationExample is an example sentence illustrating a relation.
type RelationExample struct {
	ID         uuid.UUID
	RelationID uuid.UUID
	Text       string
	Language   string
	CreatedAt  time.Time
}

// Source is a bibliographic or web source backing a relation.
type Source struct {
	ID         uuid.UUID
	RelationID uuid.UUID
	Name       string
	PageInfo   string
	Type       SourceType
	CreatedAt  time.Time
}

// LexemeRef is the identifying projection of a lexeme.
type LexemeRef struct {
	ID       uuid.UUID
	Lexeme   string
	Language string
	POS      PartOfSpeech
}

// RelationEdge is the minimal projection of a relation used to build the
// translation graph.
type RelationEdge struct {
	RelationID uuid.UUID
	From       LexemeRef
	To         LexemeRef
	Type       RelationType
}

// RelationKey identifies a relation without its database id.
type RelationKey struct {
	From uuid.UUID
	To   uuid.UUID
	Type RelationType
}

// Key returns the natural key of the relation.
func (r *Relation) Key() RelationKey {
	return RelationKey{From: r.LexemeFromID, To: r.LexemeToID, Type: r.Type}
}
