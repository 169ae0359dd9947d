package blobs

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	storage "github.com/supabase-community/storage-go"
)

// supabaseAPI is the object-level surface the store needs.
type supabaseAPI interface {
	Upload(bucket, path string, data []byte, contentType string) error
	Download(bucket, path string) ([]byte, error)
	Remove(bucket string, paths []string) error
}

// SupabaseClient adapts *storage.Client to supabaseAPI.
type SupabaseClient struct {
	c *storage.Client
}

// NewSupabaseClient points a storage client at the project's storage API.
func NewSupabaseClient(projectURL, serviceKey string) *SupabaseClient {
	return &SupabaseClient{c: storage.NewClient(strings.TrimSuffix(projectURL, "/")+"/storage/v1", serviceKey, nil)}
}

func (c *SupabaseClient) Upload(bucket, path string, data []byte, contentType string) error {
	upsert := true
	_, err := c.c.UploadFile(bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

func (c *SupabaseClient) Download(bucket, path string) ([]byte, error) {
	return c.c.DownloadFile(bucket, path)
}

func (c *SupabaseClient) Remove(bucket string, paths []string) error {
	_, err := c.c.RemoveFile(bucket, paths)
	return err
}

// SupabaseStore keeps blobs in a Supabase Storage bucket. The storage API
// calls are not context-aware; ctx is checked before each call.
type SupabaseStore struct {
	client supabaseAPI
	bucket string
	prefix string
}

func NewSupabaseStore(client supabaseAPI, bucket, prefix string) *SupabaseStore {
	return &SupabaseStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *SupabaseStore) objectPath(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *SupabaseStore) Put(ctx context.Context, key string, img models.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.client.Upload(s.bucket, s.objectPath(key), img.Data, img.ContentType); err != nil {
		return fmt.Errorf("failed to put blob[%s]: %w", key, err)
	}
	return nil
}

func (s *SupabaseStore) Get(ctx context.Context, key string) (*models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.client.Download(s.bucket, s.objectPath(key))
	if err != nil {
		if isSupabaseNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get blob[%s]: %w", key, err)
	}

	img := models.NewImage(data, "")
	return &img, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.client.Remove(s.bucket, []string{s.objectPath(key)}); err != nil && !isSupabaseNotFound(err) {
		return fmt.Errorf("failed to delete blob[%s]: %w", key, err)
	}
	return nil
}

// The storage client reports HTTP failures as plain errors carrying the
// response text.
func isSupabaseNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
