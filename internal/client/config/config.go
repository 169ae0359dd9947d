package config

import (
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/blobs"
	"github.com/Yijia-Z/dalle2-app/internal/storage"
)

// Config holds runtime settings for the terminal client.
//
// OpenAIAPIKey is only read from the environment or the JSON file. When it
// is empty the client falls back to the key sealed in the local database.
type Config struct {
	DatabaseDriver     string
	DatabaseDSN        string
	BlobBackend        string
	S3Region           string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3BaseEndpoint     string
	SupabaseURL        string
	SupabaseKey        string
	SupabaseBucket     string
	OpenAIBaseURL      string
	OpenAIAPIKey       string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	DefaultModel       string
	ExportDir          string
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "dalle.db"
	c.BlobBackend = string(storage.BlobsDatabase)
	c.S3Region = "us-east-1"
	c.OpenAIBaseURL = imagegen.DefaultBaseURL
	c.RequestTimeout = imagegen.DefaultTimeout
	c.DefaultModel = string(models.DefaultModel)
	c.ExportDir = "."
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, then the JSON file, the
// environment and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Storage converts the storage-related fields for storage.Open.
func (c *Config) Storage() storage.Options {
	return storage.Options{
		Driver:      c.DatabaseDriver,
		DSN:         c.DatabaseDSN,
		BlobBackend: storage.BlobBackend(c.BlobBackend),
		S3: blobs.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			UsePathStyle: c.S3BaseEndpoint != "",
		},
		Supabase: storage.SupabaseOptions{
			URL:    c.SupabaseURL,
			Key:    c.SupabaseKey,
			Bucket: c.SupabaseBucket,
		},
	}
}
