package domain

import "github.com/google/uuid"

// LexemeFilter contains search and pagination parameters for lexeme lists.
type LexemeFilter struct {
	// Query matches the normalised headword by prefix, or anywhere when Contains is set.
	Query        *string
	Contains     bool
	Language     *string
	POS          *PartOfSpeech
	Checked      *bool
	ImportedFrom *string
	// Rhyme matches lexemes whose assonance ends with the given vowel skeleton.
	Rhyme     *string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// RelationFilter contains search and pagination parameters for relation lists.
type RelationFilter struct {
	LexemeID     *uuid.UUID
	Types        []RelationType
	FromLanguage *string
	ToLanguage   *string
	Checked      *bool
	Limit        int
	Offset       int
}

// Page is a slice of results plus the unpaginated total.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
