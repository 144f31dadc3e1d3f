package config

import (
	"fmt"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31 (got %d)", c.Auth.BcryptCost)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Lexicon.validate(); err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}
	if err := c.Prediction.validate(); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}

	if c.Inflection.Timeout <= 0 {
		return fmt.Errorf("inflection.timeout must be > 0 (got %v)", c.Inflection.Timeout)
	}
	if c.Inflection.CacheSize <= 0 {
		return fmt.Errorf("inflection.cache_size must be > 0 (got %d)", c.Inflection.CacheSize)
	}

	if c.TermWiki.Concurrency <= 0 {
		return fmt.Errorf("termwiki.concurrency must be > 0 (got %d)", c.TermWiki.Concurrency)
	}
	if !domain.IsValidLanguage(c.TermWiki.SourceLanguage) {
		return fmt.Errorf("termwiki.source_language %q is not a 3-letter code", c.TermWiki.SourceLanguage)
	}

	if c.Storage.UseObjectStorage() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("storage: access_key and secret_key are required when endpoint is set")
	}

	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be > 0 (got %d)", c.Import.BatchSize)
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("ratelimit: requests and window must be > 0 when enabled")
	}

	return nil
}

func (l *LexiconConfig) validate() error {
	if !domain.IsValidLanguage(l.SourceLanguage) {
		return fmt.Errorf("source_language %q is not a 3-letter code", l.SourceLanguage)
	}
	if !domain.IsValidLanguage(l.TargetLanguage) {
		return fmt.Errorf("target_language %q is not a 3-letter code", l.TargetLanguage)
	}
	if l.DefaultLimit <= 0 || l.MaxLimit < l.DefaultLimit {
		return fmt.Errorf("default_limit must be > 0 and <= max_limit (got %d, %d)", l.DefaultLimit, l.MaxLimit)
	}
	return nil
}

func (p *PredictionConfig) validate() error {
	if p.TopK < 0 {
		return fmt.Errorf("top_k must be >= 0 (got %d)", p.TopK)
	}
	if p.MinScore < 0 || p.MinScore > 1 {
		return fmt.Errorf("min_score must be within [0, 1] (got %v)", p.MinScore)
	}
	types := p.RelationTypeList()
	if len(types) == 0 {
		return fmt.Errorf("relation_types must not be empty")
	}
	for _, t := range types {
		if !domain.RelationType(t).IsValid() {
			return fmt.Errorf("relation_types: unknown type %q", t)
		}
	}
	return nil
}
