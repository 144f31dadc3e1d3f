package dix

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

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<dictionary>
  <alphabet/>
  <sdefs><sdef n="n"/><sdef n="vblex"/><sdef n="sg"/></sdefs>
  <section id="main" type="standard">
    <e><p><l>kuõll<s n="n"/></l><r>kala<s n="n"/><s n="sg"/></r></p></e>
    <e r="LR" c="check"><p><l>mõõnned<s n="vblex"/></l><r>lähteä<b/>pois<s n="vblex"/></r></p></e>
    <e><i>Anár<s n="np"/></i></e>
    <e><par n="house__n"/></e>
    <e><p><l></l><r>tyhjä</r></p></e>
  </section>
</dictionary>`

func TestParse(t *testing.T) {
	t.Parallel()

	res, err := Parse(strings.NewReader(sample), opts)
	require.NoError(t, err)

	rec := func(line int, from string, fromPOS domain.PartOfSpeech, to string, toPOS domain.PartOfSpeech, notes string) lexformat.Record {
		return lexformat.Record{
			Line:   line,
			Lexeme: lexformat.Entry{Text: from, Language: "sms", POS: fromPOS},
			Translations: []lexformat.Translation{{
				Entry: lexformat.Entry{Text: to, Language: "fin", POS: toPOS},
				Type:  domain.RelationTranslation,
				Notes: notes,
			}},
		}
	}
	want := []lexformat.Record{
		rec(1, "kuõll", domain.PartOfSpeechNoun, "kala", domain.PartOfSpeechNoun, ""),
		rec(2, "mõõnned", domain.PartOfSpeechVerb, "lähteä pois", domain.PartOfSpeechVerb, "dix:r=LR; check"),
		rec(3, "Anár", domain.PartOfSpeechProperNoun, "Anár", domain.PartOfSpeechProperNoun, ""),
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	wantErrs := []lexformat.LineError{
		{Line: 4, Reason: "entry without <p> or <i>"},
		{Line: 5, Reason: "empty side"},
	}
	if diff := cmp.Diff(wantErrs, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteThenParse(t *testing.T) {
	t.Parallel()

	records := []lexformat.Record{
		{
			Lexeme: lexformat.Entry{Text: "mõõnned", Language: "sms", POS: domain.PartOfSpeechVerb},
			Translations: []lexformat.Translation{
				{Entry: lexformat.Entry{Text: "lähteä pois", Language: "fin", POS: domain.PartOfSpeechVerb}, Type: domain.RelationTranslation, Notes: "dix:r=RL; a & b"},
				{Entry: lexformat.Entry{Text: "mennä", Language: "fin", POS: domain.PartOfSpeechVerb}, Type: domain.RelationTranslation},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	out := buf.String()
	assert.Contains(t, out, `<sdef n="vblex"/>`)
	assert.Contains(t, out, `<e r="RL" c="a &amp; b"><p><l>mõõnned<s n="vblex"/></l><r>lähteä<b/>pois<s n="vblex"/></r></p></e>`)

	res, err := Parse(&buf, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "lähteä pois", res.Records[0].Translations[0].Text)
	assert.Equal(t, "dix:r=RL; a & b", res.Records[0].Translations[0].Notes)
	assert.Equal(t, "mennä", res.Records[1].Translations[0].Text)
}

func TestTagMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag string
		pos domain.PartOfSpeech
	}{
		{"n", domain.PartOfSpeechNoun},
		{"vbser", domain.PartOfSpeechVerb},
		{"cnjsub", domain.PartOfSpeechSubordConj},
		{"ij", domain.PartOfSpeechInterjection},
		{"post", domain.PartOfSpeechPostposition},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pos, TagPOS(tt.tag), tt.tag)
	}
	assert.Equal(t, "vblex", POSTag(domain.PartOfSpeechVerb))
	assert.Equal(t, "np", POSTag(domain.PartOfSpeechProperNoun))
	assert.Equal(t, "", POSTag(domain.PartOfSpeechUnknown))
}
