// Package blobs persists image payloads under opaque string keys.
//
// # Overview
//
// The history keeps only keys; the bytes live here. Keys follow the record
// naming contract (see models.OutputKey, models.OriginalKey, models.MaskKey)
// and the store never enumerates its contents, so a blob is reachable only
// through a record that names it.
//
// Key Types
//
//   - Store         : Put/Get/Delete contract shared by every backend
//   - SQLiteStore   : local database table (default for the terminal client)
//   - PostgresStore : server database table
//   - S3Store       : S3-compatible object storage (AWS, MinIO)
//   - SupabaseStore : Supabase Storage bucket
//
// # Semantics
//
// Get of an unknown key returns common.ErrorNotFound. Delete of an unknown
// key succeeds. Put overwrites.
package blobs

import (
	"context"

	"github.com/Yijia-Z/dalle2-app/internal/models"
)

type Store interface {
	Put(ctx context.Context, key string, img models.Image) error
	Get(ctx context.Context, key string) (*models.Image, error)
	Delete(ctx context.Context, key string) error
}
