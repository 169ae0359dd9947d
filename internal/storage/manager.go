// Package storage opens the database, applies migrations and selects the
// blob backend for both binaries.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Yijia-Z/dalle2-app/internal/dbx"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/migrations"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/blobs"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/metadata"
)

// BlobBackend names where image bytes are kept.
type BlobBackend string

const (
	BlobsDatabase BlobBackend = "db"
	BlobsS3       BlobBackend = "s3"
	BlobsSupabase BlobBackend = "supabase"
)

type SupabaseOptions struct {
	URL    string
	Key    string
	Bucket string
	Prefix string
}

type Options struct {
	Driver      string
	DSN         string
	BlobBackend BlobBackend
	S3          blobs.S3Options
	Supabase    SupabaseOptions
}

// Manager holds the open database and the repositories built on it.
type Manager struct {
	db      *sql.DB
	dialect dbx.Dialect
	repos   metadata.Factory
	blobs   blobs.Store
}

func (m *Manager) Conn() *sql.DB                 { return m.db }
func (m *Manager) Dialect() dbx.Dialect          { return m.dialect }
func (m *Manager) Slots() metadata.Repository    { return m.repos(m.db) }
func (m *Manager) SlotFactory() metadata.Factory { return m.repos }
func (m *Manager) Blobs() blobs.Store            { return m.blobs }

func (m *Manager) Close() error {
	return m.db.Close()
}

// Open connects to the configured database, migrates it and wires the blob
// backend. The returned Manager owns the connection.
func Open(ctx context.Context, o Options, logger logging.Logger) (*Manager, error) {
	dialect, err := dbx.ParseDialect(o.Driver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, o.DSN)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := openBlobs(ctx, o, dialect, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	logger.Info(ctx, "storage ready", "driver", string(dialect), "blobs", string(backendOrDefault(o.BlobBackend)))

	return &Manager{
		db:      db,
		dialect: dialect,
		repos:   metadata.FactoryFor(dialect),
		blobs:   store,
	}, nil
}

func backendOrDefault(b BlobBackend) BlobBackend {
	if b == "" {
		return BlobsDatabase
	}
	return b
}

func openBlobs(ctx context.Context, o Options, d dbx.Dialect, db *sql.DB) (blobs.Store, error) {
	switch backendOrDefault(o.BlobBackend) {
	case BlobsDatabase:
		if d == dbx.Postgres {
			return blobs.NewPostgresStore(db), nil
		}
		return blobs.NewSQLiteStore(db), nil
	case BlobsS3:
		if o.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 bucket is not set")
		}
		client, err := blobs.NewS3Client(ctx, o.S3)
		if err != nil {
			return nil, err
		}
		return blobs.NewS3Store(client, o.S3.Bucket, o.S3.Prefix), nil
	case BlobsSupabase:
		if o.Supabase.URL == "" || o.Supabase.Bucket == "" {
			return nil, fmt.Errorf("supabase url and bucket must be set")
		}
		client := blobs.NewSupabaseClient(o.Supabase.URL, o.Supabase.Key)
		return blobs.NewSupabaseStore(client, o.Supabase.Bucket, o.Supabase.Prefix), nil
	}
	return nil, fmt.Errorf("unknown blob backend %q", o.BlobBackend)
}
