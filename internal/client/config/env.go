package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig lists the environment variables the client understands.
// Unset variables leave the corresponding field alone.
type EnvConfig struct {
	DatabaseDriver     string        `envconfig:"DALLE_DATABASE_DRIVER"`
	DatabaseDSN        string        `envconfig:"DALLE_DATABASE_DSN"`
	BlobBackend        string        `envconfig:"DALLE_BLOB_BACKEND"`
	S3Region           string        `envconfig:"AWS_REGION"`
	S3AccessKey        string        `envconfig:"AWS_ACCESS_KEY_ID"`
	S3SecretKey        string        `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string        `envconfig:"DALLE_S3_BUCKET"`
	S3BaseEndpoint     string        `envconfig:"DALLE_S3_ENDPOINT"`
	SupabaseURL        string        `envconfig:"SUPABASE_URL"`
	SupabaseKey        string        `envconfig:"SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string        `envconfig:"SUPABASE_BUCKET"`
	OpenAIBaseURL      string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIAPIKey       string        `envconfig:"OPENAI_API_KEY"`
	RequestTimeout     time.Duration `envconfig:"DALLE_REQUEST_TIMEOUT"`
	RateLimitPerMinute int           `envconfig:"DALLE_RATE_LIMIT"`
	DefaultModel       string        `envconfig:"DALLE_MODEL"`
	ExportDir          string        `envconfig:"DALLE_EXPORT_DIR"`
	LogLevel           string        `envconfig:"DALLE_LOG_LEVEL"`
}

// parseEnv overlays cfg with environment variables. A malformed value
// panics, like a malformed config file.
func parseEnv(cfg *Config) {
	e := &EnvConfig{
		DatabaseDriver:     cfg.DatabaseDriver,
		DatabaseDSN:        cfg.DatabaseDSN,
		BlobBackend:        cfg.BlobBackend,
		S3Region:           cfg.S3Region,
		S3AccessKey:        cfg.S3AccessKey,
		S3SecretKey:        cfg.S3SecretKey,
		S3Bucket:           cfg.S3Bucket,
		S3BaseEndpoint:     cfg.S3BaseEndpoint,
		SupabaseURL:        cfg.SupabaseURL,
		SupabaseKey:        cfg.SupabaseKey,
		SupabaseBucket:     cfg.SupabaseBucket,
		OpenAIBaseURL:      cfg.OpenAIBaseURL,
		OpenAIAPIKey:       cfg.OpenAIAPIKey,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DefaultModel:       cfg.DefaultModel,
		ExportDir:          cfg.ExportDir,
		LogLevel:           cfg.LogLevel,
	}
	if err := envconfig.Process("", e); err != nil {
		panic(err)
	}

	cfg.DatabaseDriver = e.DatabaseDriver
	cfg.DatabaseDSN = e.DatabaseDSN
	cfg.BlobBackend = e.BlobBackend
	cfg.S3Region = e.S3Region
	cfg.S3AccessKey = e.S3AccessKey
	cfg.S3SecretKey = e.S3SecretKey
	cfg.S3Bucket = e.S3Bucket
	cfg.S3BaseEndpoint = e.S3BaseEndpoint
	cfg.SupabaseURL = e.SupabaseURL
	cfg.SupabaseKey = e.SupabaseKey
	cfg.SupabaseBucket = e.SupabaseBucket
	cfg.OpenAIBaseURL = e.OpenAIBaseURL
	cfg.OpenAIAPIKey = e.OpenAIAPIKey
	cfg.RequestTimeout = e.RequestTimeout
	cfg.RateLimitPerMinute = e.RateLimitPerMinute
	cfg.DefaultModel = e.DefaultModel
	cfg.ExportDir = e.ExportDir
	cfg.LogLevel = e.LogLevel
}
