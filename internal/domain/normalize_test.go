package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  kuõll  ", want: "kuõll"},
		{name: "lowercase", input: "Sää'mǩiõll", want: "sää'mǩiõll"},
		{name: "compress multiple spaces", input: "jiõgg   jânnam", want: "jiõgg jânnam"},
		{name: "tabs and newlines", input: "\tvuõvdd\n", want: "vuõvdd"},
		{name: "decomposed input is composed", input: "a\u0308ijj", want: "äijj"},
		{name: "palatalisation mark kept", input: "Pueʹttem", want: "pueʹttem"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanText_PreservesCase(t *testing.T) {
	t.Parallel()

	if got := CleanText("  Aanar  "); got != "Aanar" {
		t.Errorf("CleanText = %q, want %q", got, "Aanar")
	}
}
