package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/blobs"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/metadata"
)

const (
	DefaultHistoryCapacity = 100
	DefaultMaxSlotBytes    = 5 << 20
)

// HistoryService owns the history slot and the blobs its records name.
// Commit and Delete rewrite the whole slot and are serialized.
type HistoryService struct {
	mu       sync.Mutex
	slots    metadata.Repository
	blobs    blobs.Store
	cache    *imageCache
	capacity int
	maxBytes int
	logger   logging.Logger
}

type HistoryOption func(*HistoryService)

func WithCapacity(n int) HistoryOption {
	return func(s *HistoryService) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithMaxSlotBytes(n int) HistoryOption {
	return func(s *HistoryService) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func WithHistoryLogger(l logging.Logger) HistoryOption {
	return func(s *HistoryService) { s.logger = l.With("module", "history") }
}

func NewHistoryService(slots metadata.Repository, store blobs.Store, opts ...HistoryOption) *HistoryService {
	s := &HistoryService{
		slots:    slots,
		blobs:    store,
		capacity: DefaultHistoryCapacity,
		maxBytes: DefaultMaxSlotBytes,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = newImageCache(s.capacity * (models.MaxImagesPerRun + 2))
	return s
}

// Commit writes the draft's images to the blob store, then prepends the
// record (now holding keys only) to the history and evicts records beyond
// capacity. If any blob write fails the history is left untouched.
func (s *HistoryService) Commit(ctx context.Context, draft models.Draft) (*models.GenerationRecord, error) {
	rec := draft.Record
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: record id is empty", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.ID == rec.ID {
			return nil, fmt.Errorf("%w: duplicate record id %s", common.ErrorValidation, rec.ID)
		}
	}

	written, err := s.writeBlobs(ctx, &rec, draft)
	if err != nil {
		s.removeBlobs(ctx, written)
		return nil, err
	}

	list = append([]models.GenerationRecord{rec}, list...)
	var evicted []models.GenerationRecord
	if len(list) > s.capacity {
		evicted = list[s.capacity:]
		list = list[:s.capacity]
	}

	if err := s.save(ctx, list); err != nil {
		s.removeBlobs(ctx, written)
		return nil, err
	}

	for _, old := range evicted {
		s.removeBlobs(ctx, old.BlobKeys())
		s.logger.Info(ctx, "record evicted", "record", old.ID)
	}

	s.logger.Info(ctx, "record committed", "record", rec.ID, "type", rec.Type, "images", len(rec.Images))
	return &rec, nil
}

// writeBlobs stores each inline image under its derived key and points the
// record at the keys. It returns the keys written so far, also on error.
func (s *HistoryService) writeBlobs(ctx context.Context, rec *models.GenerationRecord, draft models.Draft) ([]string, error) {
	written := make([]string, 0, len(draft.Images)+2)
	put := func(key string, img models.Image) error {
		if err := s.blobs.Put(ctx, key, img); err != nil {
			return fmt.Errorf("store image %s: %w", key, err)
		}
		written = append(written, key)
		return nil
	}

	rec.OriginalImage, rec.MaskImage = "", ""
	if draft.Original != nil {
		key := models.OriginalKey(rec.ID)
		if err := put(key, *draft.Original); err != nil {
			return written, err
		}
		rec.OriginalImage = key
	}
	if draft.Mask != nil {
		key := models.MaskKey(rec.ID)
		if err := put(key, *draft.Mask); err != nil {
			return written, err
		}
		rec.MaskImage = key
	}

	rec.Images = make([]string, 0, len(draft.Images))
	for i, img := range draft.Images {
		key := models.OutputKey(rec.ID, i)
		if err := put(key, img); err != nil {
			return written, err
		}
		rec.Images = append(rec.Images, key)
	}
	return written, nil
}

// Delete removes the records with the given ids and every blob they
// reference. Unknown ids are ignored. It returns how many records went.
func (s *HistoryService) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]models.GenerationRecord, 0, len(list))
	var gone []string
	removed := 0
	for _, r := range list {
		if _, ok := wanted[r.ID]; !ok {
			kept = append(kept, r)
			continue
		}
		gone = append(gone, r.BlobKeys()...)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}

	// The list must stop naming the keys before they disappear.
	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	s.removeBlobs(ctx, gone)

	s.logger.Info(ctx, "records deleted", "count", removed)
	return removed, nil
}

// List returns the history, newest first.
func (s *HistoryService) List(ctx context.Context) ([]models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *HistoryService) Get(ctx context.Context, id string) (*models.GenerationRecord, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

// Image loads a blob by key.
func (s *HistoryService) Image(ctx context.Context, key string) (*models.Image, error) {
	return s.blobs.Get(ctx, key)
}

// ResolveImage returns the blob under key as a data URL, loading it on
// first use and serving it from memory afterwards. A load that races with
// the key's deletion is returned but not cached.
func (s *HistoryService) ResolveImage(ctx context.Context, key string) (string, error) {
	url, gen, ok := s.cache.lookup(key)
	if ok {
		return url, nil
	}

	img, err := s.blobs.Get(ctx, key)
	if err != nil {
		return "", err
	}

	url = img.DataURL()
	s.cache.store(key, url, gen)
	return url, nil
}

// removeBlobs deletes keys one by one. Failures are logged and skipped.
func (s *HistoryService) removeBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		s.cache.forget(key)
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to delete image", "key", key, "error", err)
		}
	}
}

func (s *HistoryService) load(ctx context.Context) ([]models.GenerationRecord, error) {
	raw, err := s.slots.Get(ctx, common.HistorySlotKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(raw) == 0 {
		return []models.GenerationRecord{}, nil
	}

	var list []models.GenerationRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if list == nil {
		list = []models.GenerationRecord{}
	}
	return list, nil
}

// save writes list to the slot. Every record must reference its blobs by
// key; inline image data is refused.
func (s *HistoryService) save(ctx context.Context, list []models.GenerationRecord) error {
	for i := range list {
		if err := list[i].CheckKeys(); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if len(raw) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", common.ErrSlotTooLarge, len(raw), s.maxBytes)
	}
	if err := s.slots.Set(ctx, common.HistorySlotKey, raw); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
