package config

import (
	"os"
	"testing"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "dalle.db", c.DatabaseDSN)
	assert.Equal(t, "db", c.BlobBackend)
	assert.Equal(t, 5*time.Minute, c.RequestTimeout)
	assert.Equal(t, "dall-e-2", c.DefaultModel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "dalle.db", cfg.DatabaseDSN)
}

func TestLoadConfig_FlagsBeatEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("DALLE_DATABASE_DSN", "env.db")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	os.Args = []string{"testbin", "-d", "flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, "flag.db", cfg.DatabaseDSN)
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
}

func TestStorageOptions(t *testing.T) {
	c := Config{DatabaseDriver: "sqlite", DatabaseDSN: "x.db", BlobBackend: "s3", S3Bucket: "b", S3BaseEndpoint: "http://minio:9000"}
	o := c.Storage()

	assert.Equal(t, storage.BlobsS3, o.BlobBackend)
	assert.Equal(t, "b", o.S3.Bucket)
	assert.True(t, o.S3.UsePathStyle)
}
