package lexc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

var opts = lexformat.Options{SourceLanguage: "sms", TargetLanguage: "fin"}

const sample = `! Skolt Sami test lexicon
Multichar_Symbols
+N +V +Sg
%^VowRaise

LEXICON Root
Nouns ;
Verbs ;

LEXICON Nouns
kuõll:kuõl N_KUOLL "kala, kalat" ; ! fish
vuõnn N_VUONN ;
pue%:ss N_ODD "x!y" ;

LEXICON Verbs
mõõnned V_MOONNED "mennä" ;
broken V_X
`

func TestParse(t *testing.T) {
	t.Parallel()

	res, err := Parse(strings.NewReader(sample), opts)
	require.NoError(t, err)

	tr := func(text string, pos domain.PartOfSpeech) lexformat.Translation {
		return lexformat.Translation{
			Entry: lexformat.Entry{Text: text, Language: "fin", POS: pos},
			Type:  domain.RelationTranslation,
		}
	}
	want := []lexformat.Record{
		{
			Line:         11,
			Lexeme:       lexformat.Entry{Text: "kuõll", Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_KUOLL"},
			Stems:        []lexformat.Stem{{Text: "kuõl", Contlex: "N_KUOLL"}},
			Translations: []lexformat.Translation{tr("kala", domain.PartOfSpeechNoun), tr("kalat", domain.PartOfSpeechNoun)},
		},
		{
			Line:   12,
			Lexeme: lexformat.Entry{Text: "vuõnn", Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_VUONN"},
		},
		{
			Line:         13,
			Lexeme:       lexformat.Entry{Text: "pue:ss", Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_ODD"},
			Translations: []lexformat.Translation{tr("x!y", domain.PartOfSpeechNoun)},
		},
		{
			Line:         16,
			Lexeme:       lexformat.Entry{Text: "mõõnned", Language: "sms", POS: domain.PartOfSpeechVerb, Contlex: "V_MOONNED"},
			Translations: []lexformat.Translation{tr("mennä", domain.PartOfSpeechVerb)},
		},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	wantErrs := []lexformat.LineError{{Line: 17, Reason: "entry not terminated by ';'"}}
	if diff := cmp.Diff(wantErrs, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EntryErrors(t *testing.T) {
	t.Parallel()

	input := "LEXICON Nouns\n" +
		"a b c ;\n" +
		"kuõll N \"open ;\n" +
		"x N \"a\" \"b\" ;\n"

	res, err := Parse(strings.NewReader(input), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "unterminated gloss", res.Errors[1].Reason)
	assert.Equal(t, "more than one gloss", res.Errors[2].Reason)
}

func TestWriteThenParse(t *testing.T) {
	t.Parallel()

	records := []lexformat.Record{
		{
			Lexeme: lexformat.Entry{Text: "mõõnned", Language: "sms", POS: domain.PartOfSpeechVerb, Contlex: "V_MOONNED"},
			Translations: []lexformat.Translation{
				{Entry: lexformat.Entry{Text: "mennä", Language: "fin", POS: domain.PartOfSpeechVerb}, Type: domain.RelationTranslation},
			},
		},
		{
			Lexeme: lexformat.Entry{Text: "kuõll", Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_KUOLL"},
			Stems:  []lexformat.Stem{{Text: "kuõl"}},
		},
		{
			Lexeme: lexformat.Entry{Text: "ij leat", Language: "sms"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	out := buf.String()
	assert.Contains(t, out, "LEXICON Root\nNouns ;\nUnclassified ;\nVerbs ;\n")
	assert.Contains(t, out, "kuõll:kuõl N_KUOLL ;")
	assert.Contains(t, out, "ij% leat # ;")

	res, err := Parse(strings.NewReader(out), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 3)

	got := make([]string, len(res.Records))
	for i, r := range res.Records {
		got[i] = string(r.Lexeme.POS) + ":" + r.Lexeme.Text
	}
	assert.Equal(t, []string{"N:kuõll", ":ij leat", "V:mõõnned"}, got)
	assert.Equal(t, "mennä", res.Records[2].Translations[0].Text)
}

func TestLexiconMapping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.PartOfSpeechAdverb, LexiconPOS("Adverbs"))
	assert.Equal(t, domain.PartOfSpeech("Root"), LexiconPOS("Root"))
	assert.Equal(t, "Adjectives", LexiconName(domain.PartOfSpeechAdjective))
	assert.Equal(t, "CC", LexiconName(domain.PartOfSpeechCoordConj))
}
