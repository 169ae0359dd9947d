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

type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, key string, img models.Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, content_type, data) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET content_type = EXCLUDED.content_type, data = EXCLUDED.data
	`, key, img.ContentType, img.Data)
	if err != nil {
		return fmt.Errorf("failed to put blob[%s]: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*models.Image, error) {
	img := &models.Image{}
	err := s.db.QueryRowContext(ctx, `SELECT content_type, data FROM blobs WHERE key = $1`, key).
		Scan(&img.ContentType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob[%s]: %w", key, err)
	}
	return img, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete blob[%s]: %w", key, err)
	}
	return nil
}
