package importer

import (
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

const defaultBatchSize = 500

// Config holds import pipeline settings.
type Config struct {
	Format         lexformat.Format
	SourceLanguage string
	TargetLanguage string
	// RelationType applies to translations whose type the file omits.
	RelationType domain.RelationType
	// ImportedFrom labels every lexeme the import creates.
	ImportedFrom string
	BatchSize    int
	// DryRun parses and resolves but writes nothing.
	DryRun bool
}

// Validate checks the settings that do not depend on the input file.
func (c Config) Validate() error {
	var errs []domain.FieldError

	if c.Format != "" {
		if _, err := lexformat.ParseFormat(string(c.Format)); err != nil {
			errs = append(errs, domain.FieldError{Field: "format", Message: err.Error()})
		}
	}
	if c.SourceLanguage != "" && !domain.IsValidLanguage(c.SourceLanguage) {
		errs = append(errs, domain.FieldError{Field: "source_language", Message: "invalid language code"})
	}
	if c.TargetLanguage != "" && !domain.IsValidLanguage(c.TargetLanguage) {
		errs = append(errs, domain.FieldError{Field: "target_language", Message: "invalid language code"})
	}
	if c.RelationType != "" && !c.RelationType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "relation_type", Message: "unknown relation type"})
	}
	if c.BatchSize < 0 {
		errs = append(errs, domain.FieldError{Field: "batch_size", Message: "must not be negative"})
	}

	return domain.Collect(errs)
}

func (c Config) options() lexformat.Options {
	return lexformat.Options{
		SourceLanguage: c.SourceLanguage,
		TargetLanguage: c.TargetLanguage,
		RelationType:   c.RelationType,
	}
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return defaultBatchSize
	}
	return c.BatchSize
}
