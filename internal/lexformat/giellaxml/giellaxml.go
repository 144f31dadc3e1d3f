// Package giellaxml reads and writes the Giella dictionary XML format
// (<r><e><lg><l/></lg><mg><tg><t/></tg></mg></e></r>).
package giellaxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

type document struct {
	XMLName xml.Name `xml:"r"`
	Lang    string   `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Entries []entry  `xml:"e"`
}

type entry struct {
	LG       lemmaGroup `xml:"lg"`
	Meanings []meaning  `xml:"mg"`
	Notes    string     `xml:"note,omitempty"`
}

type lemmaGroup struct {
	L     lemma      `xml:"l"`
	Stems *stemGroup `xml:"stg,omitempty"`
}

type lemma struct {
	POS  string `xml:"pos,attr,omitempty"`
	HID  string `xml:"hid,attr,omitempty"`
	Text string `xml:",chardata"`
}

type stemGroup struct {
	Stems []stem `xml:"st"`
}

type stem struct {
	Contlex string `xml:"Contlex,attr,omitempty"`
	Text    string `xml:",chardata"`
}

type meaning struct {
	Translations []translationGroup `xml:"tg"`
	Examples     []exampleGroup     `xml:"xg"`
}

type translationGroup struct {
	Lang     string         `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Terms    []term         `xml:"t"`
	Examples []exampleGroup `xml:"xg"`
}

type term struct {
	POS  string `xml:"pos,attr,omitempty"`
	HID  string `xml:"hid,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
	Text string `xml:",chardata"`
}

type exampleGroup struct {
	X  string `xml:"x"`
	XT string `xml:"xt,omitempty"`
}

// Parse reads a Giella XML dictionary. The language of <r xml:lang> wins
// over opts.SourceLanguage; <tg xml:lang> wins over opts.TargetLanguage.
// Examples in <mg> attach to the lexeme, examples in <tg> to each of its
// translations.
func Parse(r io.Reader, opts lexformat.Options) (lexformat.Result, error) {
	var doc document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return lexformat.Result{}, fmt.Errorf("decode xml: %w", err)
	}

	srcLang := firstNonEmpty(doc.Lang, opts.SourceLanguage)

	var res lexformat.Result
	for i, e := range doc.Entries {
		pos := i + 1
		text := strings.TrimSpace(e.LG.L.Text)
		if text == "" {
			res.Errors = append(res.Errors, lexformat.LineError{Line: pos, Reason: "entry without <l>"})
			continue
		}
		hid, err := parseHID(e.LG.L.HID)
		if err != nil {
			res.Errors = append(res.Errors, lexformat.LineError{Line: pos, Reason: err.Error()})
			continue
		}

		rec := lexformat.Record{
			Line: pos,
			Lexeme: lexformat.Entry{
				Text:      text,
				HomonymID: hid,
				Language:  srcLang,
				POS:       domain.ParsePartOfSpeech(e.LG.L.POS),
			},
			Notes: strings.TrimSpace(e.Notes),
		}
		if e.LG.Stems != nil {
			for i, st := range e.LG.Stems.Stems {
				if i == 0 {
					rec.Lexeme.Contlex = strings.TrimSpace(st.Contlex)
				}
				if t := strings.TrimSpace(st.Text); t != "" && t != text {
					rec.Stems = append(rec.Stems, lexformat.Stem{Text: t, Contlex: strings.TrimSpace(st.Contlex)})
				}
			}
		}

		for _, mg := range e.Meanings {
			rec.Examples = append(rec.Examples, examples(mg.Examples)...)
			for _, tg := range mg.Translations {
				lang := firstNonEmpty(tg.Lang, opts.TargetLanguage)
				for _, t := range tg.Terms {
					ttext := strings.TrimSpace(t.Text)
					if ttext == "" {
						continue
					}
					thid, err := parseHID(t.HID)
					if err != nil {
						res.Errors = append(res.Errors, lexformat.LineError{Line: pos, Reason: err.Error()})
						continue
					}
					relType := opts.DefaultRelationType()
					if t.Type != "" {
						relType = domain.RelationType(t.Type)
					}
					rec.Translations = append(rec.Translations, lexformat.Translation{
						Entry: lexformat.Entry{
							Text:      ttext,
							HomonymID: thid,
							Language:  lang,
							POS:       domain.ParsePartOfSpeech(t.POS),
						},
						Type:     relType,
						Examples: examples(tg.Examples),
					})
				}
			}
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// Write writes records as one <e> per record with a single <mg>. Records
// are expected to share the source language, which goes on <r>.
func Write(w io.Writer, records []lexformat.Record) error {
	doc := document{Entries: make([]entry, 0, len(records))}
	if len(records) > 0 {
		doc.Lang = records[0].Lexeme.Language
	}

	for _, rec := range records {
		e := entry{
			LG: lemmaGroup{L: lemma{
				POS:  string(rec.Lexeme.POS),
				HID:  formatHID(rec.Lexeme.HomonymID),
				Text: rec.Lexeme.Text,
			}},
			Notes: rec.Notes,
		}
		if rec.Lexeme.Contlex != "" || len(rec.Stems) > 0 {
			sg := &stemGroup{}
			if len(rec.Stems) == 0 {
				sg.Stems = []stem{{Contlex: rec.Lexeme.Contlex, Text: rec.Lexeme.Text}}
			}
			for _, st := range rec.Stems {
				sg.Stems = append(sg.Stems, stem{Contlex: firstNonEmpty(st.Contlex, rec.Lexeme.Contlex), Text: st.Text})
			}
			e.LG.Stems = sg
		}

		if len(rec.Translations) > 0 || len(rec.Examples) > 0 {
			mg := meaning{Examples: toExampleGroups(rec.Examples)}
			byLang := map[string]int{}
			for _, tr := range rec.Translations {
				idx, ok := byLang[tr.Language]
				if !ok {
					idx = len(mg.Translations)
					byLang[tr.Language] = idx
					mg.Translations = append(mg.Translations, translationGroup{Lang: tr.Language})
				}
				tg := &mg.Translations[idx]
				typ := ""
				if tr.Type != "" && tr.Type != domain.RelationTranslation {
					typ = string(tr.Type)
				}
				tg.Terms = append(tg.Terms, term{
					POS:  string(tr.POS),
					HID:  formatHID(tr.HomonymID),
					Type: typ,
					Text: tr.Text,
				})
				tg.Examples = append(tg.Examples, toExampleGroups(tr.Examples)...)
			}
			e.Meanings = []meaning{mg}
		}
		doc.Entries = append(doc.Entries, e)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func examples(groups []exampleGroup) []lexformat.Example {
	var out []lexformat.Example
	for _, xg := range groups {
		if x := strings.TrimSpace(xg.X); x != "" {
			out = append(out, lexformat.Example{Text: x, Translation: strings.TrimSpace(xg.XT)})
		}
	}
	return out
}

func toExampleGroups(exs []lexformat.Example) []exampleGroup {
	var out []exampleGroup
	for _, ex := range exs {
		out = append(out, exampleGroup{X: ex.Text, XT: ex.Translation})
	}
	return out
}

// parseHID accepts "", "2" and the Giella "Hom2" form.
func parseHID(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "Hom")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid hid %q", s)
	}
	return n, nil
}

func formatHID(n int) string {
	if n == 0 {
		return ""
	}
	return "Hom" + strconv.Itoa(n)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
