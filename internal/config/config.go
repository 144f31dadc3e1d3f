package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	Lexicon    LexiconConfig    `yaml:"lexicon"`
	Prediction PredictionConfig `yaml:"prediction"`
	Inflection InflectionConfig `yaml:"inflection"`
	TermWiki   TermWikiConfig   `yaml:"termwiki"`
	Storage    StorageConfig    `yaml:"storage"`
	Import     ImportConfig     `yaml:"import"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"verdd"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"12"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP request limits for the API.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATELIMIT_ENABLED"          env-default:"true"`
	Requests        int           `yaml:"requests"         env:"RATELIMIT_REQUESTS"         env-default:"300"`
	Window          time.Duration `yaml:"window"           env:"RATELIMIT_WINDOW"           env-default:"1m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATELIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// LexiconConfig holds dictionary defaults.
type LexiconConfig struct {
	SourceLanguage string `yaml:"source_language" env:"LEXICON_SOURCE_LANGUAGE" env-default:"sms"`
	TargetLanguage string `yaml:"target_language" env:"LEXICON_TARGET_LANGUAGE" env-default:"fin"`
	DefaultLimit   int    `yaml:"default_limit"   env:"LEXICON_DEFAULT_LIMIT"   env-default:"50"`
	MaxLimit       int    `yaml:"max_limit"       env:"LEXICON_MAX_LIMIT"       env-default:"500"`
}

// PredictionConfig holds translation prediction defaults.
type PredictionConfig struct {
	TopK          int     `yaml:"top_k"          env:"PREDICTION_TOP_K"          env-default:"5"`
	MinScore      float64 `yaml:"min_score"      env:"PREDICTION_MIN_SCORE"      env-default:"0"`
	SamePOS       bool    `yaml:"same_pos"       env:"PREDICTION_SAME_POS"       env-default:"false"`
	RelationTypes string  `yaml:"relation_types" env:"PREDICTION_RELATION_TYPES" env-default:"translation,broad_translation"`
}

// InflectionConfig holds HFST settings.
type InflectionConfig struct {
	LookupPath string        `yaml:"lookup_path" env:"INFLECTION_LOOKUP_PATH" env-default:"hfst-lookup"`
	ModelsDir  string        `yaml:"models_dir"  env:"INFLECTION_MODELS_DIR"  env-default:"/usr/share/giella"`
	Timeout    time.Duration `yaml:"timeout"     env:"INFLECTION_TIMEOUT"     env-default:"5s"`
	CacheSize  int           `yaml:"cache_size"  env:"INFLECTION_CACHE_SIZE"  env-default:"4096"`
}

// TermWikiConfig points at the MediaWiki instance used for term sync.
type TermWikiConfig struct {
	APIURL         string        `yaml:"api_url"         env:"TERMWIKI_API_URL"         env-default:"https://satni.uit.no/termwiki/api.php"`
	PageURLBase    string        `yaml:"page_url_base"   env:"TERMWIKI_PAGE_URL_BASE"   env-default:"https://satni.uit.no/termwiki/index.php?title="`
	Category       string        `yaml:"category"        env:"TERMWIKI_CATEGORY"        env-default:"Category:Concepts"`
	SourceLanguage string        `yaml:"source_language" env:"TERMWIKI_SOURCE_LANGUAGE" env-default:"sms"`
	Timeout        time.Duration `yaml:"timeout"         env:"TERMWIKI_TIMEOUT"         env-default:"30s"`
	Concurrency    int           `yaml:"concurrency"     env:"TERMWIKI_CONCURRENCY"     env-default:"4"`
}

// StorageConfig configures where exports are written. An empty Endpoint
// keeps exports on the local filesystem under LocalDir.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"   env:"STORAGE_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Bucket    string `yaml:"bucket"     env:"STORAGE_BUCKET"     env-default:"verdd-exports"`
	Insecure  bool   `yaml:"insecure"   env:"STORAGE_INSECURE"`
	Region    string `yaml:"region"     env:"STORAGE_REGION"`
	LocalDir  string `yaml:"local_dir"  env:"STORAGE_LOCAL_DIR"  env-default:"./exports"`
}

// ImportConfig holds defaults for the import command.
type ImportConfig struct {
	BatchSize int `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"500"`
}

// UseObjectStorage reports whether exports go to an S3-compatible store.
func (c StorageConfig) UseObjectStorage() bool {
	return c.Endpoint != ""
}

// RelationTypeList splits RelationTypes into trimmed, non-empty values.
func (c PredictionConfig) RelationTypeList() []string {
	var out []string
	for _, p := range strings.Split(c.RelationTypes, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
