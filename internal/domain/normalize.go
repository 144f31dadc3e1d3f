package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText prepares display text for storage: NFC composition (Sami
// letters often arrive decomposed from LEXC and XML sources), trimmed,
// runs of whitespace collapsed to one space. Case is preserved.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// NormalizeText is CleanText plus lowercasing. It is the lookup key used for
// uniqueness and search.
//
// Diacritics, hyphens and apostrophes are preserved.
func NormalizeText(text string) string {
	return strings.ToLower(CleanText(text))
}
