package satellite

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

type exampleRow struct {
	ID        uuid.UUID `db:"id"`
	LexemeID  uuid.UUID `db:"lexeme_id"`
	Text      string    `db:"text"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

func (r exampleRow) toDomain() domain.Example {
	return domain.Example(r)
}

type stemRow struct {
	ID        uuid.UUID `db:"id"`
	LexemeID  uuid.UUID `db:"lexeme_id"`
	Text      string    `db:"text"`
	HomonymID int       `db:"homonym_id"`
	Contlex   string    `db:"contlex"`
	Notes     string    `db:"notes"`
	Order     int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

func (r stemRow) toDomain() domain.Stem {
	return domain.Stem(r)
}

type paradigmRow struct {
	ID        uuid.UUID `db:"id"`
	LexemeID  uuid.UUID `db:"lexeme_id"`
	MSD       string    `db:"msd"`
	Wordform  string    `db:"wordform"`
	CreatedAt time.Time `db:"created_at"`
}

func (r paradigmRow) toDomain() domain.MiniParadigm {
	return domain.MiniParadigm(r)
}

type affiliationRow struct {
	ID        uuid.UUID `db:"id"`
	LexemeID  uuid.UUID `db:"lexeme_id"`
	Title     string    `db:"title"`
	Link      string    `db:"link"`
	Type      string    `db:"type"`
	Checked   bool      `db:"checked"`
	CreatedAt time.Time `db:"created_at"`
}

func (r affiliationRow) toDomain() domain.Affiliation {
	return domain.Affiliation{
		ID:        r.ID,
		LexemeID:  r.LexemeID,
		Title:     r.Title,
		Link:      r.Link,
		Type:      domain.AffiliationType(r.Type),
		Checked:   r.Checked,
		CreatedAt: r.CreatedAt,
	}
}

type relationExampleRow struct {
	ID         uuid.UUID `db:"id"`
	RelationID uuid.UUID `db:"relation_id"`
	Text       string    `db:"text"`
	Language   string    `db:"language"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r relationExampleRow) toDomain() domain.RelationExample {
	return domain.RelationExample(r)
}

type sourceRow struct {
	ID         uuid.UUID `db:"id"`
	RelationID uuid.UUID `db:"relation_id"`
	Name       string    `db:"name"`
	PageInfo   string    `db:"page_info"`
	Type       string    `db:"type"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r sourceRow) toDomain() domain.Source {
	return domain.Source{
		ID:         r.ID,
		RelationID: r.RelationID,
		Name:       r.Name,
		PageInfo:   r.PageInfo,
		Type:       domain.SourceType(r.Type),
		CreatedAt:  r.CreatedAt,
	}
}
