package inflection

import (
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
)

// templates lists the MSDs shown in an inflection table per language and
// part of speech. The POS tag is not part of the MSD.
var templates = map[string]map[domain.PartOfSpeech][]string{
	"sms": {
		domain.PartOfSpeechNoun: {
			"Sg+Nom", "Sg+Gen", "Sg+Acc", "Sg+Ill", "Sg+Loc", "Sg+Com",
			"Pl+Nom", "Pl+Gen", "Pl+Acc", "Pl+Ill", "Pl+Loc", "Pl+Com",
			"Ess", "Par", "Abe",
		},
		domain.PartOfSpeechVerb: {
			"Inf",
			"Ind+Prs+Sg1", "Ind+Prs+Sg2", "Ind+Prs+Sg3", "Ind+Prs+Pl1", "Ind+Prs+Pl2", "Ind+Prs+Pl3",
			"Ind+Prt+Sg1", "Ind+Prt+Sg2", "Ind+Prt+Sg3", "Ind+Prt+Pl1", "Ind+Prt+Pl2", "Ind+Prt+Pl3",
			"Imprt+Sg2", "Imprt+Pl2", "Cond+Prs+Sg3", "Pot+Prs+Sg3",
			"PrfPrc", "PrsPrc", "VGen", "Ger",
		},
		domain.PartOfSpeechAdjective: {
			"Attr", "Sg+Nom", "Pl+Nom", "Comp+Sg+Nom", "Superl+Sg+Nom",
		},
	},
	"fin": {
		domain.PartOfSpeechNoun: {
			"Sg+Nom", "Sg+Gen", "Sg+Par", "Sg+Ine", "Sg+Ela", "Sg+Ill",
			"Sg+Ade", "Sg+Abl", "Sg+All", "Sg+Ess", "Sg+Tra",
			"Pl+Nom", "Pl+Gen", "Pl+Par", "Pl+Ine", "Pl+Ill", "Pl+Ess",
		},
		domain.PartOfSpeechVerb: {
			"Act+InfA+Sg+Lat",
			"Act+Ind+Prs+Sg1", "Act+Ind+Prs+Sg2", "Act+Ind+Prs+Sg3",
			"Act+Ind+Prs+Pl1", "Act+Ind+Prs+Pl2", "Act+Ind+Prs+Pl3",
			"Act+Ind+Prt+Sg1", "Act+Ind+Prt+Sg3", "Act+Ind+Prt+Pl3",
			"Act+Cond+Sg3", "Act+Imprt+Sg2", "Pss+Ind+Prs+Pe4",
			"Act+PrfPrc+Sg+Nom",
		},
		domain.PartOfSpeechAdjective: {
			"Sg+Nom", "Sg+Gen", "Sg+Par", "Pl+Nom",
			"Comp+Sg+Nom", "Superl+Sg+Nom",
		},
	},
}

// Template returns the MSDs for lang and pos, or nil when none is defined.
func Template(lang string, pos domain.PartOfSpeech) []string {
	return templates[lang][pos]
}

// Query builds the generator input for one MSD.
func Query(lemma string, pos domain.PartOfSpeech, msd string) string {
	return lemma + "+" + string(pos) + "+" + msd
}

// NormalizeMSD strips a leading POS tag so that stored paradigm rows
// written as "N+Sg+Gen" match template entries written as "Sg+Gen".
func NormalizeMSD(pos domain.PartOfSpeech, msd string) string {
	msd = strings.Trim(strings.TrimSpace(msd), "+")
	if pos != "" {
		msd = strings.TrimPrefix(msd, string(pos)+"+")
	}
	return msd
}
