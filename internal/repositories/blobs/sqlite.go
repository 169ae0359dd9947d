package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/dbx"
	"github.com/Yijia-Z/dalle2-app/internal/models"
)

type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Put(ctx context.Context, key string, img models.Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, content_type, data) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content_type = excluded.content_type, data = excluded.data
	`, key, img.ContentType, img.Data)
	if err != nil {
		return fmt.Errorf("failed to put blob[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*models.Image, error) {
	img := &models.Image{}
	err := s.db.QueryRowContext(ctx, `SELECT content_type, data FROM blobs WHERE key = ?`, key).
		Scan(&img.ContentType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob[%s]: %w", key, err)
	}
	return img, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete blob[%s]: %w", key, err)
	}
	return nil
}
