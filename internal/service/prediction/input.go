package prediction

import (
	"github.com/verdd/verdd-backend/internal/domain"
)

// PredictInput selects the language pair and ranking options. Nil fields
// fall back to the configured defaults.
type PredictInput struct {
	Source        string
	Target        string
	Pivots        []string
	TopK          *int
	MinScore      *float64
	SamePOS       *bool
	RelationTypes []domain.RelationType
	Save          bool
}

// Validate checks all fields and collects all errors.
func (i *PredictInput) Validate() error {
	var errs []domain.FieldError

	if !domain.IsValidLanguage(i.Source) {
		errs = append(errs, domain.FieldError{Field: "source", Message: "must be an ISO 639-3 code"})
	}
	if !domain.IsValidLanguage(i.Target) {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must be an ISO 639-3 code"})
	}
	if i.Source != "" && i.Source == i.Target {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must differ from source"})
	}
	for _, p := range i.Pivots {
		if !domain.IsValidLanguage(p) {
			errs = append(errs, domain.FieldError{Field: "pivots", Message: "must be ISO 639-3 codes"})
			break
		}
	}
	if i.TopK != nil && *i.TopK < 0 {
		errs = append(errs, domain.FieldError{Field: "top_k", Message: "must be >= 0"})
	}
	if i.MinScore != nil && (*i.MinScore < 0 || *i.MinScore >= 1) {
		errs = append(errs, domain.FieldError{Field: "min_score", Message: "must be in [0, 1)"})
	}
	for _, t := range i.RelationTypes {
		if !t.IsValid() {
			errs = append(errs, domain.FieldError{Field: "relation_types", Message: "invalid value"})
			break
		}
	}

	return domain.Collect(errs)
}
