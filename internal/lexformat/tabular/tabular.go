// Package tabular reads and writes delimited translation tables (TSV and
// CSV). The first row names the columns.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

// Column names.
const (
	ColLexemeFrom   = "lexeme_from"
	ColLexemeTo     = "lexeme_to"
	ColPOSFrom      = "pos_from"
	ColPOSTo        = "pos_to"
	ColHomonymFrom  = "homonym_from"
	ColHomonymTo    = "homonym_to"
	ColRelationType = "relation_type"
	ColNotes        = "notes"
	ColContlexFrom  = "contlex_from"
	ColContlexTo    = "contlex_to"
)

// WriteColumns is the column order used by Write.
var WriteColumns = []string{
	ColLexemeFrom, ColPOSFrom, ColHomonymFrom, ColContlexFrom,
	ColLexemeTo, ColPOSTo, ColHomonymTo, ColContlexTo,
	ColRelationType, ColNotes,
}

// Separator returns the field delimiter for a tabular format.
func Separator(f lexformat.Format) rune {
	if f == lexformat.FormatCSV {
		return ','
	}
	return '\t'
}

// Parse reads a table. Each row becomes a record with one translation.
// Rows missing a required value are reported as line errors and skipped.
func Parse(r io.Reader, sep rune, opts lexformat.Options) (lexformat.Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	// TSV files carry literal quotes in notes.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return lexformat.Result{}, errors.New("empty file")
		}
		return lexformat.Result{}, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{ColLexemeFrom, ColLexemeTo} {
		if _, ok := cols[req]; !ok {
			return lexformat.Result{}, fmt.Errorf("missing column %q", req)
		}
	}

	var res lexformat.Result
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Errors = append(res.Errors, lexformat.LineError{Line: pe.Line, Reason: pe.Err.Error()})
				continue
			}
			return res, fmt.Errorf("read row: %w", err)
		}
		if blank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		from, to := get(ColLexemeFrom), get(ColLexemeTo)
		var missing []string
		if from == "" {
			missing = append(missing, ColLexemeFrom)
		}
		if to == "" {
			missing = append(missing, ColLexemeTo)
		}
		if len(missing) > 0 {
			res.Errors = append(res.Errors, lexformat.LineError{Line: line, Reason: "missing " + strings.Join(missing, ", ")})
			continue
		}

		hidFrom, errFrom := homonym(get(ColHomonymFrom))
		hidTo, errTo := homonym(get(ColHomonymTo))
		if err := errors.Join(errFrom, errTo); err != nil {
			res.Errors = append(res.Errors, lexformat.LineError{Line: line, Reason: err.Error()})
			continue
		}

		relType := opts.DefaultRelationType()
		if v := get(ColRelationType); v != "" {
			relType = domain.RelationType(strings.ToLower(v))
			if !relType.IsValid() {
				res.Errors = append(res.Errors, lexformat.LineError{Line: line, Reason: fmt.Sprintf("unknown relation type %q", v)})
				continue
			}
		}

		res.Records = append(res.Records, lexformat.Record{
			Line: line,
			Lexeme: lexformat.Entry{
				Text:      from,
				HomonymID: hidFrom,
				Language:  opts.SourceLanguage,
				POS:       domain.ParsePartOfSpeech(get(ColPOSFrom)),
				Contlex:   get(ColContlexFrom),
			},
			Translations: []lexformat.Translation{{
				Entry: lexformat.Entry{
					Text:      to,
					HomonymID: hidTo,
					Language:  opts.TargetLanguage,
					POS:       domain.ParsePartOfSpeech(get(ColPOSTo)),
					Contlex:   get(ColContlexTo),
				},
				Type:  relType,
				Notes: get(ColNotes),
			}},
		})
	}
	return res, nil
}

// Write writes one row per translation with the WriteColumns header.
func Write(w io.Writer, sep rune, records []lexformat.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if err := cw.Write(WriteColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		for _, tr := range rec.Translations {
			row := []string{
				rec.Lexeme.Text, string(rec.Lexeme.POS), strconv.Itoa(rec.Lexeme.HomonymID), rec.Lexeme.Contlex,
				tr.Text, string(tr.POS), strconv.Itoa(tr.HomonymID), tr.Contlex,
				string(tr.Type), tr.Notes,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func homonym(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid homonym id %q", s)
	}
	return n, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
