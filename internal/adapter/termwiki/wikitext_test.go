package termwiki

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConcept(t *testing.T) {
	t.Parallel()

	const page = `{{Concept
|definition_se=Guolli lea [[čáhci|čázis]] eallit.
|reviewed_fi=No
}}
{{Related expression
|language=sms
|expression=kuõll
|pos=N
|status=recommended
}}
{{ related_expression | pos = N |expression= kala | language = FIN }}
{{Related expression|language=sme|expression=guolli|pos=N|note={{Sources|NRK}}}}
{{Related expression|language=nob|pos=N}}
{{Related expression|expression=fisk}}
`

	got := ParseConcept("Luonddu:guolli", page)
	want := Concept{
		Title: "Luonddu:guolli",
		Expressions: []Expression{
			{Language: "sms", Expression: "kuõll", POS: "N", Status: "recommended"},
			{Language: "fin", Expression: "kala", POS: "N"},
			{Language: "sme", Expression: "guolli", POS: "N"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("concept mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConcept_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"no templates", "Plain text only."},
		{"unterminated", "{{Related expression|language=sms|expression=kuõll"},
		{"other template", "{{Concept|definition=x}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseConcept("T", tt.text); len(got.Expressions) != 0 {
				t.Errorf("expressions = %v, want none", got.Expressions)
			}
		})
	}
}
