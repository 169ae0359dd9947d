package config

import (
	"encoding/json"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/flagx"
	"github.com/Yijia-Z/dalle2-app/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "30s" style strings or integer nanoseconds.
type JsonConfig struct {
	DatabaseDriver     string         `json:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	BlobBackend        string         `json:"blob_backend"`
	S3Region           string         `json:"s3_region"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	SupabaseURL        string         `json:"supabase_url"`
	SupabaseKey        string         `json:"supabase_key"`
	SupabaseBucket     string         `json:"supabase_bucket"`
	OpenAIBaseURL      string         `json:"openai_base_url"`
	OpenAIAPIKey       string         `json:"openai_api_key"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	RateLimitPerMinute int            `json:"rate_limit_per_minute"`
	DefaultModel       string         `json:"default_model"`
	ExportDir          string         `json:"export_dir"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config. Keys absent
// from the file keep their current values. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
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
		RequestTimeout:     timex.Duration{Duration: cfg.RequestTimeout},
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DefaultModel:       cfg.DefaultModel,
		ExportDir:          cfg.ExportDir,
		LogLevel:           cfg.LogLevel,
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	cfg.DatabaseDriver = c.DatabaseDriver
	cfg.DatabaseDSN = c.DatabaseDSN
	cfg.BlobBackend = c.BlobBackend
	cfg.S3Region = c.S3Region
	cfg.S3AccessKey = c.S3AccessKey
	cfg.S3SecretKey = c.S3SecretKey
	cfg.S3Bucket = c.S3Bucket
	cfg.S3BaseEndpoint = c.S3BaseEndpoint
	cfg.SupabaseURL = c.SupabaseURL
	cfg.SupabaseKey = c.SupabaseKey
	cfg.SupabaseBucket = c.SupabaseBucket
	cfg.OpenAIBaseURL = c.OpenAIBaseURL
	cfg.OpenAIAPIKey = c.OpenAIAPIKey
	cfg.RequestTimeout = c.RequestTimeout.Duration
	cfg.RateLimitPerMinute = c.RateLimitPerMinute
	cfg.DefaultModel = c.DefaultModel
	cfg.ExportDir = c.ExportDir
	cfg.LogLevel = c.LogLevel
}
