// Package lexc reads and writes HFST/Xerox lexc source files as used by
// the Giella language models.
package lexc

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

const endOfWord = "#"

var lexiconPOS = map[string]domain.PartOfSpeech{
	"Nouns":         domain.PartOfSpeechNoun,
	"Verbs":         domain.PartOfSpeechVerb,
	"Adjectives":    domain.PartOfSpeechAdjective,
	"Adverbs":       domain.PartOfSpeechAdverb,
	"Pronouns":      domain.PartOfSpeechPronoun,
	"Numerals":      domain.PartOfSpeechNumeral,
	"Particles":     domain.PartOfSpeechParticle,
	"Interjections": domain.PartOfSpeechInterjection,
	"ProperNouns":   domain.PartOfSpeechProperNoun,
	"Postpositions": domain.PartOfSpeechPostposition,
	"Prepositions":  domain.PartOfSpeechPreposition,
}

var posLexicon = func() map[domain.PartOfSpeech]string {
	m := make(map[domain.PartOfSpeech]string, len(lexiconPOS))
	for name, pos := range lexiconPOS {
		m[pos] = name
	}
	return m
}()

// LexiconName returns the LEXICON name written for pos.
func LexiconName(pos domain.PartOfSpeech) string {
	if name, ok := posLexicon[pos]; ok {
		return name
	}
	if pos == domain.PartOfSpeechUnknown {
		return "Unclassified"
	}
	return string(pos)
}

// LexiconPOS maps a LEXICON name to a part of speech.
func LexiconPOS(name string) domain.PartOfSpeech {
	if pos, ok := lexiconPOS[name]; ok {
		return pos
	}
	if name == "Unclassified" {
		return domain.PartOfSpeechUnknown
	}
	return domain.ParsePartOfSpeech(name)
}

// Parse reads lexc source. Entries are `upper[:lower] CONTLEX ["gloss"] ;`;
// the gloss is split on commas into translations. Continuation-only
// entries (`Nouns ;`) and the Multichar_Symbols block are skipped.
func Parse(r io.Reader, opts lexformat.Options) (lexformat.Result, error) {
	var (
		res         lexformat.Result
		lexicon     string
		inMultichar bool
		lineNo      int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(sc.Text()))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Multichar_Symbols") {
			inMultichar = true
			continue
		}
		if rest, ok := strings.CutPrefix(line, "LEXICON"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			inMultichar = false
			lexicon = strings.TrimSpace(rest)
			if lexicon == "" {
				res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: "LEXICON without name"})
			}
			continue
		}
		if inMultichar || lexicon == "" {
			continue
		}

		body, ok := strings.CutSuffix(line, ";")
		if !ok {
			res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: "entry not terminated by ';'"})
			continue
		}

		tokens, gloss, err := tokenize(body)
		if err != nil {
			res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: err.Error()})
			continue
		}
		switch len(tokens) {
		case 0:
			res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: "empty entry"})
			continue
		case 1:
			continue
		case 2:
		default:
			res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: fmt.Sprintf("unexpected token %q", tokens[2])})
			continue
		}

		rec := entryRecord(tokens[0], tokens[1], gloss, LexiconPOS(lexicon), opts)
		rec.Line = lineNo
		if rec.Lexeme.Text == "" {
			res.Errors = append(res.Errors, lexformat.LineError{Line: lineNo, Reason: "empty upper side"})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

func entryRecord(form, contlex, gloss string, pos domain.PartOfSpeech, opts lexformat.Options) lexformat.Record {
	upper, lower, hasLower := cutUnescaped(form, ':')
	upper = unescape(upper)
	if contlex == endOfWord {
		contlex = ""
	}

	rec := lexformat.Record{
		Lexeme: lexformat.Entry{
			Text:     upper,
			Language: opts.SourceLanguage,
			POS:      pos,
			Contlex:  contlex,
		},
	}
	if hasLower {
		if lower = unescape(lower); lower != "" && lower != upper {
			rec.Stems = append(rec.Stems, lexformat.Stem{Text: lower, Contlex: contlex})
		}
	}
	for _, g := range strings.Split(gloss, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		rec.Translations = append(rec.Translations, lexformat.Translation{
			Entry: lexformat.Entry{Text: g, Language: opts.TargetLanguage, POS: pos},
			Type:  opts.DefaultRelationType(),
		})
	}
	return rec
}

// tokenize splits an entry body on unescaped whitespace and extracts the
// quoted gloss.
func tokenize(body string) ([]string, string, error) {
	var (
		tokens []string
		cur    strings.Builder
		gloss  string
		seen   bool
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '%' && i+1 < len(rs):
			cur.WriteRune(r)
			cur.WriteRune(rs[i+1])
			i++
		case r == '"':
			end := strings.IndexRune(string(rs[i+1:]), '"')
			if end < 0 {
				return nil, "", fmt.Errorf("unterminated gloss")
			}
			if seen {
				return nil, "", fmt.Errorf("more than one gloss")
			}
			flush()
			tail := string(rs[i+1:])
			gloss = tail[:end]
			seen = true
			i += len([]rune(tail[:end])) + 1
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens, gloss, nil
}

// stripComment removes a `!` comment that is neither escaped nor quoted.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '%':
			i++
		case '"':
			inQuote = !inQuote
		case '!':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

func cutUnescaped(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%':
			i++
		case sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

const special = " \t:;!%<>\"#0{}[]"

func escape(s string) string {
	if !strings.ContainsAny(s, special) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('%')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Write writes records grouped into one LEXICON per part of speech,
// preceded by a Root lexicon continuing to each of them.
func Write(w io.Writer, records []lexformat.Record) error {
	groups := make(map[string][]lexformat.Record)
	for _, rec := range records {
		name := LexiconName(rec.Lexeme.POS)
		groups[name] = append(groups[name], rec)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "LEXICON Root")
	for _, name := range names {
		fmt.Fprintf(bw, "%s ;\n", name)
	}

	for _, name := range names {
		fmt.Fprintf(bw, "\nLEXICON %s\n", name)
		for _, rec := range groups[name] {
			bw.WriteString(entryLine(rec))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func entryLine(rec lexformat.Record) string {
	var b strings.Builder
	b.WriteString(escape(rec.Lexeme.Text))
	if len(rec.Stems) > 0 && rec.Stems[0].Text != rec.Lexeme.Text {
		b.WriteByte(':')
		b.WriteString(escape(rec.Stems[0].Text))
	}
	b.WriteByte(' ')
	if rec.Lexeme.Contlex != "" {
		b.WriteString(rec.Lexeme.Contlex)
	} else {
		b.WriteString(endOfWord)
	}
	if len(rec.Translations) > 0 {
		glosses := make([]string, len(rec.Translations))
		for i, tr := range rec.Translations {
			glosses[i] = strings.ReplaceAll(strings.ReplaceAll(tr.Text, `"`, "'"), ",", " ")
		}
		b.WriteString(` "`)
		b.WriteString(strings.Join(glosses, ", "))
		b.WriteByte('"')
	}
	b.WriteString(" ;")
	return b.String()
}
