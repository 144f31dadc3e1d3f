// Package dix reads and writes Apertium bilingual dictionaries (.dix).
package dix

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

// DirectionPrefix marks a restricted translation direction in notes
// ("dix:r=LR" or "dix:r=RL").
const DirectionPrefix = "dix:r="

const noteSep = "; "

var tagPOS = map[string]domain.PartOfSpeech{
	"n":       domain.PartOfSpeechNoun,
	"vblex":   domain.PartOfSpeechVerb,
	"vbser":   domain.PartOfSpeechVerb,
	"vaux":    domain.PartOfSpeechVerb,
	"vbhaver": domain.PartOfSpeechVerb,
	"vbmod":   domain.PartOfSpeechVerb,
	"adj":     domain.PartOfSpeechAdjective,
	"adv":     domain.PartOfSpeechAdverb,
	"pr":      domain.PartOfSpeechPreposition,
	"post":    domain.PartOfSpeechPostposition,
	"cnjcoo":  domain.PartOfSpeechCoordConj,
	"cnjsub":  domain.PartOfSpeechSubordConj,
	"prn":     domain.PartOfSpeechPronoun,
	"num":     domain.PartOfSpeechNumeral,
	"ij":      domain.PartOfSpeechInterjection,
	"np":      domain.PartOfSpeechProperNoun,
}

var posTag = map[domain.PartOfSpeech]string{
	domain.PartOfSpeechNoun:         "n",
	domain.PartOfSpeechVerb:         "vblex",
	domain.PartOfSpeechAdjective:    "adj",
	domain.PartOfSpeechAdverb:       "adv",
	domain.PartOfSpeechPreposition:  "pr",
	domain.PartOfSpeechPostposition: "post",
	domain.PartOfSpeechCoordConj:    "cnjcoo",
	domain.PartOfSpeechSubordConj:   "cnjsub",
	domain.PartOfSpeechPronoun:      "prn",
	domain.PartOfSpeechNumeral:      "num",
	domain.PartOfSpeechInterjection: "ij",
	domain.PartOfSpeechProperNoun:   "np",
}

// TagPOS maps an Apertium symbol to a part of speech.
func TagPOS(tag string) domain.PartOfSpeech {
	if pos, ok := tagPOS[tag]; ok {
		return pos
	}
	return domain.ParsePartOfSpeech(tag)
}

// POSTag maps a part of speech to an Apertium symbol, "" when unknown.
func POSTag(pos domain.PartOfSpeech) string {
	if tag, ok := posTag[pos]; ok {
		return tag
	}
	return strings.ToLower(string(pos))
}

type dictionary struct {
	XMLName  xml.Name  `xml:"dictionary"`
	Sections []section `xml:"section"`
}

type section struct {
	ID      string  `xml:"id,attr"`
	Entries []entry `xml:"e"`
}

type entry struct {
	R       string `xml:"r,attr,omitempty"`
	Comment string `xml:"c,attr,omitempty"`
	Pair    *pair  `xml:"p,omitempty"`
	Ident   *side  `xml:"i,omitempty"`
}

type pair struct {
	L side `xml:"l"`
	R side `xml:"r"`
}

// side is the content of <l>, <r> or <i>: text with <b/> blanks followed
// by <s n=""/> symbols. A <g> group is reduced to the "#" marker.
type side struct {
	Text string
	Tags []string
}

func (s *side) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "s":
				for _, a := range t.Attr {
					if a.Name.Local == "n" {
						s.Tags = append(s.Tags, a.Value)
					}
				}
			case "b":
				b.WriteByte(' ')
			case "g", "j":
				b.WriteByte('#')
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			s.Text = strings.Join(strings.Fields(b.String()), " ")
			return nil
		}
	}
}

func (s side) pos() domain.PartOfSpeech {
	if len(s.Tags) == 0 {
		return domain.PartOfSpeechUnknown
	}
	return TagPOS(s.Tags[0])
}

// Parse reads every <e> of every section. The left side is the source
// language. Entries without <p> or <i>, such as paradigm references, are
// reported and skipped.
func Parse(r io.Reader, opts lexformat.Options) (lexformat.Result, error) {
	var d dictionary
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return lexformat.Result{}, fmt.Errorf("decode dix: %w", err)
	}

	var res lexformat.Result
	n := 0
	for _, sec := range d.Sections {
		for _, e := range sec.Entries {
			n++
			left, right, ok := e.sides()
			if !ok {
				res.Errors = append(res.Errors, lexformat.LineError{Line: n, Reason: "entry without <p> or <i>"})
				continue
			}
			if left.Text == "" || right.Text == "" {
				res.Errors = append(res.Errors, lexformat.LineError{Line: n, Reason: "empty side"})
				continue
			}

			var notes []string
			if e.R != "" {
				notes = append(notes, DirectionPrefix+e.R)
			}
			if c := strings.TrimSpace(e.Comment); c != "" {
				notes = append(notes, c)
			}

			res.Records = append(res.Records, lexformat.Record{
				Line: n,
				Lexeme: lexformat.Entry{
					Text:     left.Text,
					Language: opts.SourceLanguage,
					POS:      left.pos(),
				},
				Translations: []lexformat.Translation{{
					Entry: lexformat.Entry{
						Text:     right.Text,
						Language: opts.TargetLanguage,
						POS:      right.pos(),
					},
					Type:  opts.DefaultRelationType(),
					Notes: strings.Join(notes, noteSep),
				}},
			})
		}
	}
	return res, nil
}

func (e entry) sides() (side, side, bool) {
	switch {
	case e.Pair != nil:
		return e.Pair.L, e.Pair.R, true
	case e.Ident != nil:
		return *e.Ident, *e.Ident, true
	}
	return side{}, side{}, false
}

// Write writes one <e> per translation into a single main section and
// declares every symbol used in <sdefs>.
func Write(w io.Writer, records []lexformat.Record) error {
	used := map[string]struct{}{}
	var entries []entry
	for _, rec := range records {
		for _, tr := range rec.Translations {
			e := entry{Pair: &pair{
				L: side{Text: rec.Lexeme.Text, Tags: symbols(rec.Lexeme.POS, used)},
				R: side{Text: tr.Text, Tags: symbols(tr.POS, used)},
			}}
			var comments []string
			for _, part := range strings.Split(tr.Notes, noteSep) {
				part = strings.TrimSpace(part)
				switch {
				case part == "":
				case strings.HasPrefix(part, DirectionPrefix):
					e.R = strings.TrimPrefix(part, DirectionPrefix)
				default:
					comments = append(comments, part)
				}
			}
			e.Comment = strings.Join(comments, noteSep)
			entries = append(entries, e)
		}
	}

	names := make([]string, 0, len(used))
	for tag := range used {
		names = append(names, tag)
	}
	sort.Strings(names)

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	bw.WriteString("<dictionary>\n  <alphabet/>\n  <sdefs>\n")
	for _, tag := range names {
		fmt.Fprintf(bw, "    <sdef n=\"%s\"/>\n", escape(tag))
	}
	bw.WriteString("  </sdefs>\n  <section id=\"main\" type=\"standard\">\n")
	for _, e := range entries {
		bw.WriteString("    <e")
		if e.R != "" {
			fmt.Fprintf(bw, " r=\"%s\"", escape(e.R))
		}
		if e.Comment != "" {
			fmt.Fprintf(bw, " c=\"%s\"", escape(e.Comment))
		}
		bw.WriteString("><p>")
		writeSide(bw, "l", e.Pair.L)
		writeSide(bw, "r", e.Pair.R)
		bw.WriteString("</p></e>\n")
	}
	bw.WriteString("  </section>\n</dictionary>\n")
	return bw.Flush()
}

func symbols(pos domain.PartOfSpeech, used map[string]struct{}) []string {
	tag := POSTag(pos)
	if tag == "" {
		return nil
	}
	used[tag] = struct{}{}
	return []string{tag}
}

func writeSide(bw *bufio.Writer, name string, s side) {
	fmt.Fprintf(bw, "<%s>", name)
	bw.WriteString(strings.ReplaceAll(escape(s.Text), " ", "<b/>"))
	for _, tag := range s.Tags {
		fmt.Fprintf(bw, "<s n=\"%s\"/>", escape(tag))
	}
	fmt.Fprintf(bw, "</%s>", name)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
