package giellaxml

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

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<r xml:lang="sms">
  <e>
    <lg>
      <l pos="N" hid="Hom2">kuõll</l>
      <stg>
        <st Contlex="N_KUOLL">kuõll</st>
        <st Contlex="N_KUOLL_ALT">kuõl</st>
      </stg>
    </lg>
    <mg>
      <tg xml:lang="fin">
        <t pos="N">kala</t>
        <xg><x>Kuõll lij jäävrest.</x><xt>Kala on järvessä.</xt></xg>
      </tg>
      <tg xml:lang="nob">
        <t pos="N" type="broad_translation">fisk</t>
      </tg>
      <xg><x>kuõlljäävv</x></xg>
    </mg>
  </e>
  <e>
    <lg><l pos="V">mõõnned</l></lg>
  </e>
  <e>
    <lg><l pos="N" hid="x">bad</l></lg>
  </e>
  <e><lg><l></l></lg></e>
</r>`

func TestParse(t *testing.T) {
	t.Parallel()

	res, err := Parse(strings.NewReader(sample), lexformat.Options{SourceLanguage: "fin", TargetLanguage: "eng"})
	require.NoError(t, err)

	want := []lexformat.Record{
		{
			Line: 1,
			Lexeme: lexformat.Entry{
				Text: "kuõll", HomonymID: 2, Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_KUOLL",
			},
			Stems:    []lexformat.Stem{{Text: "kuõl", Contlex: "N_KUOLL_ALT"}},
			Examples: []lexformat.Example{{Text: "kuõlljäävv"}},
			Translations: []lexformat.Translation{
				{
					Entry:    lexformat.Entry{Text: "kala", Language: "fin", POS: domain.PartOfSpeechNoun},
					Type:     domain.RelationTranslation,
					Examples: []lexformat.Example{{Text: "Kuõll lij jäävrest.", Translation: "Kala on järvessä."}},
				},
				{
					Entry: lexformat.Entry{Text: "fisk", Language: "nob", POS: domain.PartOfSpeechNoun},
					Type:  domain.RelationBroadTranslation,
				},
			},
		},
		{
			Line:   2,
			Lexeme: lexformat.Entry{Text: "mõõnned", Language: "sms", POS: domain.PartOfSpeechVerb},
		},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	wantErrs := []lexformat.LineError{
		{Line: 3, Reason: `invalid hid "x"`},
		{Line: 4, Reason: "entry without <l>"},
	}
	if diff := cmp.Diff(wantErrs, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("<r><e>"), lexformat.Options{})
	require.Error(t, err)
}

func TestWriteThenParse(t *testing.T) {
	t.Parallel()

	records := []lexformat.Record{
		{
			Lexeme: lexformat.Entry{Text: "kuõll", HomonymID: 1, Language: "sms", POS: domain.PartOfSpeechNoun, Contlex: "N_KUOLL"},
			Notes:  "a & b",
			Stems:  []lexformat.Stem{{Text: "kuõl", Contlex: "N_KUOLL"}},
			Translations: []lexformat.Translation{
				{
					Entry:    lexformat.Entry{Text: "kala", Language: "fin", POS: domain.PartOfSpeechNoun},
					Type:     domain.RelationTranslation,
					Examples: []lexformat.Example{{Text: "x <y>", Translation: "z"}},
				},
				{Entry: lexformat.Entry{Text: "fisk", Language: "nob"}, Type: domain.RelationBroadTranslation},
			},
		},
		{
			Lexeme: lexformat.Entry{Text: "mõõnned", Language: "sms", POS: domain.PartOfSpeechVerb},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))
	assert.Contains(t, buf.String(), `<r xml:lang="sms">`)
	assert.Contains(t, buf.String(), `hid="Hom1"`)

	res, err := Parse(&buf, lexformat.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Errors)

	for i := range res.Records {
		res.Records[i].Line = 0
	}
	if diff := cmp.Diff(records, res.Records); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
