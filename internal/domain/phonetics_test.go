package domain

import "testing"

func TestPhoneticKeysOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  PhoneticKeys
	}{
		{
			input: "talo",
			want:  PhoneticKeys{Assonance: "ao", AssonanceRev: "oa", Consonance: "tl", ConsonanceRev: "lt"},
		},
		{
			input: "Pueʹttem",
			want:  PhoneticKeys{Assonance: "uee", AssonanceRev: "eeu", Consonance: "pttm", ConsonanceRev: "mttp"},
		},
		{
			input: "kuõll",
			want:  PhoneticKeys{Assonance: "uõ", AssonanceRev: "õu", Consonance: "kll", ConsonanceRev: "llk"},
		},
		{
			input: "",
			want:  PhoneticKeys{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := PhoneticKeysOf(tt.input); got != tt.want {
				t.Errorf("PhoneticKeysOf(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexeme_DerivePhonetics(t *testing.T) {
	t.Parallel()

	l := &Lexeme{Lexeme: "Kala"}
	l.DerivePhonetics()
	if l.Assonance != "aa" || l.Consonance != "kl" || l.ConsonanceRev != "lk" {
		t.Errorf("unexpected keys: %+v", l)
	}
}

func TestIsValidLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{"sms", true},
		{"fin", true},
		{"FIN", false},
		{"fi", false},
		{"fin1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidLanguage(tt.code); got != tt.want {
			t.Errorf("IsValidLanguage(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
