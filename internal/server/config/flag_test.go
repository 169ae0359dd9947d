package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "60", "-b", "s3",
			"-u", "user", "-p", "password", "-k", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-l", "debug",
		}, expected: &Config{
			EndpointAddr:   "127.0.0.1:9090",
			DatabaseDSN:    "db",
			SecretKey:      "secret",
			TokenValidity:  time.Hour,
			BlobBackend:    "s3",
			S3RootUser:     "user",
			S3RootPassword: "password",
			S3Bucket:       "bucket",
			S3Region:       "us-west-1",
			S3BaseEndpoint: "http://endpoint",
			LogLevel:       "debug",
		}},
		{name: "Test2 incorrect token validity", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
