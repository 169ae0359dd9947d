package config

import (
	"flag"
	"os"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   database DSN
//	-b string   blob backend: db, s3 or supabase
//	-u string   image API base URL
//	-t int      request timeout in seconds
//	-m string   default model
//	-o string   export directory
//	-l string   log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-u", "-t", "-m", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.BlobBackend, "b", cfg.BlobBackend, "blob backend (db, s3, supabase)")
	fs.StringVar(&cfg.OpenAIBaseURL, "u", cfg.OpenAIBaseURL, "image API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DefaultModel, "m", cfg.DefaultModel, "default model")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
