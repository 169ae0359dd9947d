// Package config loads runtime configuration for the terminal client.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. A JSON file named by -c or -config.
//  3. Environment variables (OPENAI_API_KEY, DALLE_DATABASE_DSN, ...).
//  4. Command-line flags.
//
// Example file:
//
//	{
//	  "database_dsn": "dalle.db",
//	  "blob_backend": "db",
//	  "request_timeout": "5m",
//	  "default_model": "gpt-image-1"
//	}
package config
