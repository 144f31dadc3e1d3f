// Package lexformat defines the record shape shared by the dictionary
// file codecs in its subpackages. Codecs are pure: readers in, records
// out, no database access.
package lexformat

import (
	"fmt"

	"github.com/verdd/verdd-backend/internal/domain"
)

// Format names a file format.
type Format string

const (
	FormatTSV       Format = "tsv"
	FormatCSV       Format = "csv"
	FormatLEXC      Format = "lexc"
	FormatGiellaXML Format = "xml"
	FormatDIX       Format = "dix"
)

// Formats lists every supported format.
var Formats = []Format{FormatTSV, FormatCSV, FormatLEXC, FormatGiellaXML, FormatDIX}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "tsv", ".tsv":
		return FormatTSV, nil
	case "csv", ".csv":
		return FormatCSV, nil
	case "lexc", ".lexc":
		return FormatLEXC, nil
	case "xml", ".xml", "giellaxml":
		return FormatGiellaXML, nil
	case "dix", ".dix":
		return FormatDIX, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Entry is a lexeme as it appears in a file.
type Entry struct {
	Text      string
	HomonymID int
	Language  string
	POS       domain.PartOfSpeech
	Contlex   string
}

// Key returns the natural key of the entry.
func (e Entry) Key() domain.LexemeKey {
	return domain.LexemeKey{
		Lexeme:    domain.CleanText(e.Text),
		HomonymID: e.HomonymID,
		Language:  e.Language,
		POS:       e.POS,
	}
}

// Stem is an additional stem of the record's lexeme.
type Stem struct {
	Text    string
	Contlex string
}

// Example is a usage example with an optional translation.
type Example struct {
	Text        string
	Translation string
}

// Translation links the record's lexeme to another lexeme.
type Translation struct {
	Entry
	Type  domain.RelationType
	Notes string
	// Examples are attached to the relation.
	Examples []Example
}

// Record is one dictionary entry with its translations.
type Record struct {
	Lexeme       Entry
	Notes        string
	Stems        []Stem
	Examples     []Example
	Translations []Translation
	// Line is the 1-based source line the record starts on, or the entry
	// position for XML formats. 0 if unknown.
	Line int
}

// LineError reports a problem with one line of input. Parsing continues
// after a LineError.
type LineError struct {
	Line   int
	Reason string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Options carries the context a file does not state itself.
type Options struct {
	SourceLanguage string
	TargetLanguage string
	// RelationType is used for translations whose type the file omits.
	RelationType domain.RelationType
}

// DefaultRelationType returns RelationType or translation.
func (o Options) DefaultRelationType() domain.RelationType {
	if o.RelationType == "" {
		return domain.RelationTranslation
	}
	return o.RelationType
}

// Result is the output of a parser.
type Result struct {
	Records []Record
	Errors  []LineError
}
