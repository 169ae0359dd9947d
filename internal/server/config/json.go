package config

import (
	"encoding/json"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/flagx"
	"github.com/Yijia-Z/dalle2-app/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading the JSON file.
// timex.Duration accepts both "1s" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	DatabaseDriver     string         `json:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	TokenValidity      timex.Duration `json:"token_validity"`
	BlobBackend        string         `json:"blob_backend"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	SupabaseURL        string         `json:"supabase_url"`
	SupabaseKey        string         `json:"supabase_key"`
	SupabaseBucket     string         `json:"supabase_bucket"`
	OpenAIBaseURL      string         `json:"openai_base_url"`
	OpenAIAPIKey       string         `json:"openai_api_key"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	RateLimitPerMinute int            `json:"rate_limit_per_minute"`
	LogLevel           string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config over config. Keys the
// file omits keep their current value. Read or decode errors panic.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddr:       config.EndpointAddr,
		DatabaseDriver:     config.DatabaseDriver,
		DatabaseDSN:        config.DatabaseDSN,
		SecretKey:          config.SecretKey,
		TokenValidity:      timex.Duration{Duration: config.TokenValidity},
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
		RequestTimeout:     timex.Duration{Duration: config.RequestTimeout},
		RateLimitPerMinute: config.RateLimitPerMinute,
		LogLevel:           config.LogLevel,
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidity = c.TokenValidity.Duration
	config.BlobBackend = c.BlobBackend
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SupabaseURL = c.SupabaseURL
	config.SupabaseKey = c.SupabaseKey
	config.SupabaseBucket = c.SupabaseBucket
	config.OpenAIBaseURL = c.OpenAIBaseURL
	config.OpenAIAPIKey = c.OpenAIAPIKey
	config.RequestTimeout = c.RequestTimeout.Duration
	config.RateLimitPerMinute = c.RateLimitPerMinute
	config.LogLevel = c.LogLevel
}
