package lexicon

import "github.com/verdd/verdd-backend/internal/domain"

// changeSet accumulates field changes for one history record.
type changeSet map[string]any

func (c changeSet) add(field string, old, new any) {
	if old != new {
		c[field] = domain.FieldChange{Old: old, New: new}
	}
}

func (c changeSet) with(field string, old, new any) changeSet {
	c.add(field, old, new)
	return c
}

// lexemeChanges lists the user-editable fields that differ. Phonetic keys
// are derived from the headword and are not recorded separately.
func lexemeChanges(before, after domain.Lexeme) changeSet {
	c := changeSet{}
	c.add("lexeme", before.Lexeme, after.Lexeme)
	c.add("homonym_id", before.HomonymID, after.HomonymID)
	c.add("language", before.Language, after.Language)
	c.add("pos", string(before.POS), string(after.POS))
	c.add("contlex", before.Contlex, after.Contlex)
	c.add("type", before.Type, after.Type)
	c.add("lemma_id", before.LemmaID, after.LemmaID)
	c.add("inflex_id", before.InflexID, after.InflexID)
	c.add("inflex_type", before.InflexType, after.InflexType)
	c.add("specification", before.Specification, after.Specification)
	c.add("notes", before.Notes, after.Notes)
	c.add("checked", before.Checked, after.Checked)
	return c
}

func relationChanges(before, after domain.Relation) changeSet {
	c := changeSet{}
	c.add("type", string(before.Type), string(after.Type))
	c.add("notes", before.Notes, after.Notes)
	c.add("checked", before.Checked, after.Checked)
	return c
}

// lexemeSnapshot is stored on create and delete so the record stays
// readable after the row is gone.
func lexemeSnapshot(l domain.Lexeme) map[string]any {
	return map[string]any{
		"lexeme":     l.Lexeme,
		"homonym_id": l.HomonymID,
		"language":   l.Language,
		"pos":        string(l.POS),
	}
}

func relationSnapshot(r domain.Relation) map[string]any {
	return map[string]any{
		"lexeme_from_id": r.LexemeFromID.String(),
		"lexeme_to_id":   r.LexemeToID.String(),
		"type":           string(r.Type),
	}
}
