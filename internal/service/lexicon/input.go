package lexicon

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

const (
	maxLexemeLen  = 255
	maxNotesLen   = 5000
	maxTextLen    = 2000
	maxBulkIDs    = 1000
	maxHomonymID  = 99
	maxShortField = 100
)

// CreateLexemeInput holds the parameters for creating a lexeme.
type CreateLexemeInput struct {
	Lexeme        string
	HomonymID     int
	Language      string
	POS           domain.PartOfSpeech
	Contlex       string
	Type          string
	LemmaID       string
	InflexID      string
	InflexType    string
	Specification string
	Notes         string
	Checked       bool
}

// Validate checks all fields and collects all errors.
func (i *CreateLexemeInput) Validate() error {
	var errs []domain.FieldError

	errs = validateLexemeText(errs, i.Lexeme)
	errs = validateHomonym(errs, i.HomonymID)
	errs = validateLanguage(errs, "language", i.Language)
	errs = validatePOS(errs, i.POS)
	errs = validateShort(errs, "contlex", i.Contlex)
	errs = validateShort(errs, "type", i.Type)
	errs = validateShort(errs, "inflex_type", i.InflexType)
	if utf8.RuneCountInString(i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}

	return domain.Collect(errs)
}

// UpdateLexemeInput is a partial update: nil fields are left unchanged.
type UpdateLexemeInput struct {
	ID            uuid.UUID
	Lexeme        *string
	HomonymID     *int
	Language      *string
	POS           *domain.PartOfSpeech
	Contlex       *string
	Type          *string
	LemmaID       *string
	InflexID      *string
	InflexType    *string
	Specification *string
	Notes         *string
	Checked       *bool
}

// Validate checks all fields and collects all errors.
func (i *UpdateLexemeInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Lexeme != nil {
		errs = validateLexemeText(errs, *i.Lexeme)
	}
	if i.HomonymID != nil {
		errs = validateHomonym(errs, *i.HomonymID)
	}
	if i.Language != nil {
		errs = validateLanguage(errs, "language", *i.Language)
	}
	if i.POS != nil {
		errs = validatePOS(errs, *i.POS)
	}
	if i.Contlex != nil {
		errs = validateShort(errs, "contlex", *i.Contlex)
	}
	if i.Notes != nil && utf8.RuneCountInString(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}

	return domain.Collect(errs)
}

// CreateRelationInput holds the parameters for linking two lexemes.
type CreateRelationInput struct {
	LexemeFromID uuid.UUID
	LexemeToID   uuid.UUID
	Type         domain.RelationType
	Notes        string
	Checked      bool
}

// Validate checks all fields and collects all errors.
func (i *CreateRelationInput) Validate() error {
	var errs []domain.FieldError

	if i.LexemeFromID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "lexeme_from_id", Message: "required"})
	}
	if i.LexemeToID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "lexeme_to_id", Message: "required"})
	}
	if i.LexemeFromID != uuid.Nil && i.LexemeFromID == i.LexemeToID {
		errs = append(errs, domain.FieldError{Field: "lexeme_to_id", Message: "must differ from lexeme_from_id"})
	}
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid value"})
	}
	if utf8.RuneCountInString(i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}

	return domain.Collect(errs)
}

// UpdateRelationInput is a partial update of a relation.
type UpdateRelationInput struct {
	ID      uuid.UUID
	Type    *domain.RelationType
	Notes   *string
	Checked *bool
}

// Validate checks all fields and collects all errors.
func (i *UpdateRelationInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid value"})
	}
	if i.Notes != nil && utf8.RuneCountInString(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long (max 5000)"})
	}

	return domain.Collect(errs)
}

// SetCheckedInput marks a batch of lexemes or relations as reviewed.
type SetCheckedInput struct {
	IDs     []uuid.UUID
	Checked bool
}

// Validate checks all fields and collects all errors.
func (i *SetCheckedInput) Validate() error {
	var errs []domain.FieldError

	switch {
	case len(i.IDs) == 0:
		errs = append(errs, domain.FieldError{Field: "ids", Message: "required (at least 1)"})
	case len(i.IDs) > maxBulkIDs:
		errs = append(errs, domain.FieldError{Field: "ids", Message: "too many (max 1000)"})
	}
	for _, id := range i.IDs {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "ids", Message: "contains empty id"})
			break
		}
	}

	return domain.Collect(errs)
}

// ---------------------------------------------------------------------------
// Satellite inputs
// ---------------------------------------------------------------------------

// AddExampleInput attaches a usage example to a lexeme.
type AddExampleInput struct {
	LexemeID uuid.UUID
	Text     string
	Source   string
}

func (i *AddExampleInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "lexeme_id", i.LexemeID)
	errs = validateText(errs, "text", i.Text)
	return domain.Collect(errs)
}

// AddStemInput attaches a stem to a lexeme.
type AddStemInput struct {
	LexemeID  uuid.UUID
	Text      string
	HomonymID int
	Contlex   string
	Notes     string
	Order     int
}

func (i *AddStemInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "lexeme_id", i.LexemeID)
	errs = validateText(errs, "text", i.Text)
	errs = validateHomonym(errs, i.HomonymID)
	errs = validateShort(errs, "contlex", i.Contlex)
	if i.Order < 0 {
		errs = append(errs, domain.FieldError{Field: "order", Message: "must be >= 0"})
	}
	return domain.Collect(errs)
}

// AddMiniParadigmInput stores a hand-curated word form.
type AddMiniParadigmInput struct {
	LexemeID uuid.UUID
	MSD      string
	Wordform string
}

func (i *AddMiniParadigmInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "lexeme_id", i.LexemeID)
	if strings.TrimSpace(i.MSD) == "" {
		errs = append(errs, domain.FieldError{Field: "msd", Message: "required"})
	}
	errs = validateShort(errs, "msd", i.MSD)
	errs = validateText(errs, "wordform", i.Wordform)
	return domain.Collect(errs)
}

// AddAffiliationInput links a lexeme to an external page.
type AddAffiliationInput struct {
	LexemeID uuid.UUID
	Title    string
	Link     string
	Type     domain.AffiliationType
	Checked  bool
}

func (i *AddAffiliationInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "lexeme_id", i.LexemeID)
	errs = validateText(errs, "title", i.Title)
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid value"})
	}
	return domain.Collect(errs)
}

// AddRelationExampleInput attaches an example sentence to a relation.
type AddRelationExampleInput struct {
	RelationID uuid.UUID
	Text       string
	Language   string
}

func (i *AddRelationExampleInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "relation_id", i.RelationID)
	errs = validateText(errs, "text", i.Text)
	errs = validateLanguage(errs, "language", i.Language)
	return domain.Collect(errs)
}

// AddSourceInput attaches a bibliographic source to a relation.
type AddSourceInput struct {
	RelationID uuid.UUID
	Name       string
	PageInfo   string
	Type       domain.SourceType
}

func (i *AddSourceInput) Validate() error {
	var errs []domain.FieldError
	errs = validateParent(errs, "relation_id", i.RelationID)
	errs = validateText(errs, "name", i.Name)
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid value"})
	}
	return domain.Collect(errs)
}

// ---------------------------------------------------------------------------
// Field rules
// ---------------------------------------------------------------------------

func validateLexemeText(errs []domain.FieldError, text string) []domain.FieldError {
	clean := domain.CleanText(text)
	switch {
	case clean == "":
		errs = append(errs, domain.FieldError{Field: "lexeme", Message: "required"})
	case utf8.RuneCountInString(clean) > maxLexemeLen:
		errs = append(errs, domain.FieldError{Field: "lexeme", Message: "too long (max 255)"})
	}
	return errs
}

func validateHomonym(errs []domain.FieldError, id int) []domain.FieldError {
	if id < 0 || id > maxHomonymID {
		errs = append(errs, domain.FieldError{Field: "homonym_id", Message: "must be between 0 and 99"})
	}
	return errs
}

func validateLanguage(errs []domain.FieldError, field, code string) []domain.FieldError {
	if !domain.IsValidLanguage(code) {
		errs = append(errs, domain.FieldError{Field: field, Message: "must be an ISO 639-3 code"})
	}
	return errs
}

func validatePOS(errs []domain.FieldError, pos domain.PartOfSpeech) []domain.FieldError {
	if !pos.IsValid() {
		errs = append(errs, domain.FieldError{Field: "pos", Message: "invalid value"})
	}
	return errs
}

func validateShort(errs []domain.FieldError, field, value string) []domain.FieldError {
	if utf8.RuneCountInString(value) > maxShortField {
		errs = append(errs, domain.FieldError{Field: field, Message: "too long (max 100)"})
	}
	return errs
}

func validateText(errs []domain.FieldError, field, value string) []domain.FieldError {
	clean := domain.CleanText(value)
	switch {
	case clean == "":
		errs = append(errs, domain.FieldError{Field: field, Message: "required"})
	case utf8.RuneCountInString(clean) > maxTextLen:
		errs = append(errs, domain.FieldError{Field: field, Message: "too long (max 2000)"})
	}
	return errs
}

func validateParent(errs []domain.FieldError, field string, id uuid.UUID) []domain.FieldError {
	if id == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	return errs
}
