package domain

import "strings"

// PartOfSpeech is a Giella-style POS tag (N, V, A, ...).
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "N"
	PartOfSpeechVerb         PartOfSpeech = "V"
	PartOfSpeechAdjective    PartOfSpeech = "A"
	PartOfSpeechAdverb       PartOfSpeech = "Adv"
	PartOfSpeechPronoun      PartOfSpeech = "Pron"
	PartOfSpeechNumeral      PartOfSpeech = "Num"
	PartOfSpeechParticle     PartOfSpeech = "Pcle"
	PartOfSpeechInterjection PartOfSpeech = "Interj"
	PartOfSpeechCoordConj    PartOfSpeech = "CC"
	PartOfSpeechSubordConj   PartOfSpeech = "CS"
	PartOfSpeechPostposition PartOfSpeech = "Po"
	PartOfSpeechPreposition  PartOfSpeech = "Pr"
	PartOfSpeechProperNoun   PartOfSpeech = "Prop"
	PartOfSpeechPhrase       PartOfSpeech = "Phrase"
	PartOfSpeechUnknown      PartOfSpeech = ""
)

var allPartsOfSpeech = []PartOfSpeech{
	PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
	PartOfSpeechPronoun, PartOfSpeechNumeral, PartOfSpeechParticle, PartOfSpeechInterjection,
	PartOfSpeechCoordConj, PartOfSpeechSubordConj, PartOfSpeechPostposition,
	PartOfSpeechPreposition, PartOfSpeechProperNoun, PartOfSpeechPhrase,
}

func (p PartOfSpeech) String() string { return string(p) }

// IsValid reports whether p is a known tag. The empty tag is valid: legacy
// imports frequently carry no POS.
func (p PartOfSpeech) IsValid() bool {
	if p == PartOfSpeechUnknown {
		return true
	}
	for _, known := range allPartsOfSpeech {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePartOfSpeech maps loosely written tags ("n", "noun", "Adv") to the
// canonical value. Unknown tags are returned as cleaned input so that
// callers may still store them after validation fails.
func ParsePartOfSpeech(s string) PartOfSpeech {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return PartOfSpeechUnknown
	case "n", "noun", "s", "subst":
		return PartOfSpeechNoun
	case "v", "verb":
		return PartOfSpeechVerb
	case "a", "adj", "adjective":
		return PartOfSpeechAdjective
	case "adv", "adverb":
		return PartOfSpeechAdverb
	case "pron", "pronoun":
		return PartOfSpeechPronoun
	case "num", "numeral":
		return PartOfSpeechNumeral
	case "pcle", "particle":
		return PartOfSpeechParticle
	case "interj", "ij", "interjection":
		return PartOfSpeechInterjection
	case "cc":
		return PartOfSpeechCoordConj
	case "cs":
		return PartOfSpeechSubordConj
	case "po", "post", "postposition":
		return PartOfSpeechPostposition
	case "pr", "prep", "preposition":
		return PartOfSpeechPreposition
	case "prop", "np":
		return PartOfSpeechProperNoun
	case "phrase", "mwe":
		return PartOfSpeechPhrase
	}
	return PartOfSpeech(s)
}

// RelationType classifies a link between two lexemes.
type RelationType string

const (
	RelationTranslation      RelationType = "translation"
	RelationBroadTranslation RelationType = "broad_translation"
	RelationDerivation       RelationType = "derivation"
	RelationCompound         RelationType = "compound"
	RelationEtymology        RelationType = "etymology"
	RelationVariant          RelationType = "variant"
	RelationSynonym          RelationType = "synonym"
)

func (t RelationType) String() string { return string(t) }

func (t RelationType) IsValid() bool {
	switch t {
	case RelationTranslation, RelationBroadTranslation, RelationDerivation, RelationCompound,
		RelationEtymology, RelationVariant, RelationSynonym:
		return true
	}
	return false
}

// IsTranslation reports whether t links lexemes of different languages by meaning.
func (t RelationType) IsTranslation() bool {
	return t == RelationTranslation || t == RelationBroadTranslation
}

// EntityType identifies the kind of entity a history record refers to.
type EntityType string

const (
	EntityLexeme          EntityType = "lexeme"
	EntityRelation        EntityType = "relation"
	EntityExample         EntityType = "example"
	EntityStem            EntityType = "stem"
	EntityMiniParadigm    EntityType = "mini_paradigm"
	EntityAffiliation     EntityType = "affiliation"
	EntityRelationExample EntityType = "relation_example"
	EntitySource          EntityType = "source"
	EntityImport          EntityType = "import"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityLexeme, EntityRelation, EntityExample, EntityStem, EntityMiniParadigm,
		EntityAffiliation, EntityRelationExample, EntitySource, EntityImport:
		return true
	}
	return false
}

// HistoryAction is the kind of change a history record describes.
type HistoryAction string

const (
	ActionCreate HistoryAction = "create"
	ActionUpdate HistoryAction = "update"
	ActionDelete HistoryAction = "delete"
)

func (a HistoryAction) String() string { return string(a) }

// AffiliationType tells where an affiliation link points.
type AffiliationType string

const (
	AffiliationTermWiki AffiliationType = "termwiki"
	AffiliationOther    AffiliationType = "other"
)

func (t AffiliationType) IsValid() bool {
	return t == AffiliationTermWiki || t == AffiliationOther
}

// SourceType is the kind of bibliographic source behind a relation.
type SourceType string

const (
	SourceBook SourceType = "book"
	SourceLink SourceType = "link"
)

func (t SourceType) IsValid() bool {
	return t == SourceBook || t == SourceLink
}

// Role is a user's permission level.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	return r == RoleViewer || r == RoleEditor || r == RoleAdmin
}

// CanEdit reports whether the role may change dictionary data.
func (r Role) CanEdit() bool {
	return r == RoleEditor || r == RoleAdmin
}
