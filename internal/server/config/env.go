package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	EndpointAddr       string        `envconfig:"DALLE_ADDR"`
	DatabaseDriver     string        `envconfig:"DALLE_DATABASE_DRIVER"`
	DatabaseDSN        string        `envconfig:"DALLE_DATABASE_DSN"`
	SecretKey          string        `envconfig:"DALLE_JWT_SECRET"`
	TokenValidity      time.Duration `envconfig:"DALLE_TOKEN_VALIDITY"`
	BlobBackend        string        `envconfig:"DALLE_BLOB_BACKEND"`
	S3RootUser         string        `envconfig:"AWS_ACCESS_KEY_ID"`
	S3RootPassword     string        `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string        `envconfig:"DALLE_S3_BUCKET"`
	S3Region           string        `envconfig:"AWS_REGION"`
	S3BaseEndpoint     string        `envconfig:"DALLE_S3_ENDPOINT"`
	SupabaseURL        string        `envconfig:"SUPABASE_URL"`
	SupabaseKey        string        `envconfig:"SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string        `envconfig:"SUPABASE_BUCKET"`
	OpenAIBaseURL      string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIAPIKey       string        `envconfig:"OPENAI_API_KEY"`
	RequestTimeout     time.Duration `envconfig:"DALLE_REQUEST_TIMEOUT"`
	RateLimitPerMinute int           `envconfig:"DALLE_RATE_LIMIT"`
	LogLevel           string        `envconfig:"DALLE_LOG_LEVEL"`
}

// parseEnv overlays config with the variables that are set.
func parseEnv(config *Config) {
	e := &EnvConfig{
		EndpointAddr:       config.EndpointAddr,
		DatabaseDriver:     config.DatabaseDriver,
		DatabaseDSN:        config.DatabaseDSN,
		SecretKey:          config.SecretKey,
		TokenValidity:      config.TokenValidity,
		BlobBackend:        config.BlobBackend,
		S3RootUser:         config.S3RootUser,
		S3RootPassword:     config.S3RootPassword,
		S3Bucket:           config.S3Bucket,
		S3Region:           config.S3Region,
		S3BaseEndpoint:     config.S3BaseEndpoint,
		SupabaseURL:        config.SupabaseURL,
		SupabaseKey:        config.SupabaseKey,
		SupabaseBucket:     config.SupabaseBucket,
		OpenAIBaseURL:      config.OpenAIBaseURL,
		OpenAIAPIKey:       config.OpenAIAPIKey,
		RequestTimeout:     config.RequestTimeout,
		RateLimitPerMinute: config.RateLimitPerMinute,
		LogLevel:           config.LogLevel,
	}
	if err := envconfig.Process("", e); err != nil {
		panic(err)
	}

	config.EndpointAddr = e.EndpointAddr
	config.DatabaseDriver = e.DatabaseDriver
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.TokenValidity = e.TokenValidity
	config.BlobBackend = e.BlobBackend
	config.S3RootUser = e.S3RootUser
	config.S3RootPassword = e.S3RootPassword
	config.S3Bucket = e.S3Bucket
	config.S3Region = e.S3Region
	config.S3BaseEndpoint = e.S3BaseEndpoint
	config.SupabaseURL = e.SupabaseURL
	config.SupabaseKey = e.SupabaseKey
	config.SupabaseBucket = e.SupabaseBucket
	config.OpenAIBaseURL = e.OpenAIBaseURL
	config.OpenAIAPIKey = e.OpenAIAPIKey
	config.RequestTimeout = e.RequestTimeout
	config.RateLimitPerMinute = e.RateLimitPerMinute
	config.LogLevel = e.LogLevel
}
