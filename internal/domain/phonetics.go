package domain

import "unicode"

// vowels of Skolt Sami, Finnish and the other languages kept in the
// dictionary. Input is NFC lowercased before lookup.
var vowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true, 'y': true,
	'å': true, 'ä': true, 'ö': true, 'â': true, 'õ': true, 'æ': true, 'ø': true,
	'á': true, 'é': true, 'í': true, 'ó': true, 'ú': true,
}

// PhoneticKeys are the rhyme keys derived from a headword.
type PhoneticKeys struct {
	Assonance     string
	AssonanceRev  string
	Consonance    string
	ConsonanceRev string
}

// PhoneticKeysOf splits the normalised headword into its vowel and
// consonant skeletons. Modifier letters such as the Skolt Sami
// palatalisation mark (ʹ) and non-letters are ignored.
func PhoneticKeysOf(text string) PhoneticKeys {
	var vs, cs []rune
	for _, r := range NormalizeText(text) {
		if !unicode.IsLetter(r) || unicode.Is(unicode.Lm, r) {
			continue
		}
		if vowels[r] {
			vs = append(vs, r)
		} else {
			cs = append(cs, r)
		}
	}
	return PhoneticKeys{
		Assonance:     string(vs),
		AssonanceRev:  reverseRunes(vs),
		Consonance:    string(cs),
		ConsonanceRev: reverseRunes(cs),
	}
}

func reverseRunes(rs []rune) string {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}
	return string(out)
}

// IsValidLanguage reports whether code looks like an ISO 639-3 code.
func IsValidLanguage(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
