package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/dbx"
	"github.com/Yijia-Z/dalle2-app/internal/migrations"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/blobs"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/metadata"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite))
	return db
}

// flakyStore wraps a real store and fails Put or Delete for chosen keys.
type flakyStore struct {
	blobs.Store

	mu         sync.Mutex
	failPut    map[string]bool
	failDelete map[string]bool
	deleted    []string
	afterGet   func(key string)
}

func newFlakyStore(inner blobs.Store) *flakyStore {
	return &flakyStore{Store: inner, failPut: map[string]bool{}, failDelete: map[string]bool{}}
}

func (f *flakyStore) Put(ctx context.Context, key string, img models.Image) error {
	if f.failPut[key] {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, key, img)
}

func (f *flakyStore) Get(ctx context.Context, key string) (*models.Image, error) {
	img, err := f.Store.Get(ctx, key)
	if hook := f.afterGet; hook != nil {
		f.afterGet = nil
		hook(key)
	}
	return img, err
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	f.mu.Unlock()
	if f.failDelete[key] {
		return errors.New("permission denied")
	}
	return f.Store.Delete(ctx, key)
}

// brokenSlots reads through but refuses every write.
type brokenSlots struct {
	metadata.Repository
}

func (brokenSlots) Set(context.Context, string, []byte) error {
	return errors.New("database is locked")
}

type fixture struct {
	db      *sql.DB
	slots   metadata.Repository
	store   *flakyStore
	history *HistoryService
}

func newFixture(t *testing.T, opts ...HistoryOption) *fixture {
	t.Helper()
	db := setupDB(t)
	slots := metadata.NewSQLiteRepository(db)
	store := newFlakyStore(blobs.NewSQLiteStore(db))
	return &fixture{
		db:      db,
		slots:   slots,
		store:   store,
		history: NewHistoryService(slots, store, opts...),
	}
}

func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n))
	return n
}

func generateDraft(id string, n int) models.Draft {
	d := models.Draft{
		Record: models.GenerationRecord{
			ID:          id,
			Type:        models.OpGenerate,
			Prompt:      "a cat in a hat",
			Size:        models.Size256,
			N:           n,
			Cost:        0.016 * float64(n),
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			RequestTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Model:       models.ModelDallE2,
		},
	}
	for i := 0; i < n; i++ {
		d.Images = append(d.Images, models.Image{ContentType: "image/png", Data: append([]byte(nil), pngBytes...)})
	}
	return d
}

func editDraft(id string) models.Draft {
	d := generateDraft(id, 2)
	d.Record.Type = models.OpEdit
	orig := models.Image{ContentType: "image/png", Data: pngBytes}
	mask := models.Image{ContentType: "image/png", Data: pngBytes}
	d.Original, d.Mask = &orig, &mask
	return d
}

func recordID(i int) string {
	return fmt.Sprintf("rec-%03d", i)
}
