package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/pricing"
	"github.com/google/uuid"
)

// ImageClient is the remote image service.
type ImageClient interface {
	Generate(ctx context.Context, apiKey string, req imagegen.GenerateRequest) (*imagegen.Response, error)
	Vary(ctx context.Context, apiKey string, req imagegen.VariationRequest) (*imagegen.Response, error)
	Edit(ctx context.Context, apiKey string, req imagegen.EditRequest) (*imagegen.Response, error)
}

// Committer persists a finished draft.
type Committer interface {
	Commit(ctx context.Context, draft models.Draft) (*models.GenerationRecord, error)
}

type GenerateInput struct {
	Model   models.Model        `json:"model"`
	Prompt  string              `json:"prompt"`
	N       int                 `json:"n"`
	Size    models.Size         `json:"size"`
	Options models.ImageOptions `json:"options"`
}

type VariationInput struct {
	Model models.Model
	N     int
	Size  models.Size
	Image models.Image
}

type EditInput struct {
	Model  models.Model
	Prompt string
	N      int
	Size   models.Size
	Image  models.Image
	Mask   models.Image
}

// Result is what a finished request hands back for display. Images are
// returned even when saving to history failed; SaveErr reports that case
// and Record is then nil.
type Result struct {
	Record  *models.GenerationRecord
	Images  []models.Image
	Cost    pricing.Breakdown
	Usage   *models.Usage
	SaveErr error
}

type StudioService struct {
	client  ImageClient
	history Committer
	logger  logging.Logger
	now     func() time.Time
	newID   func() (string, error)
}

func NewStudioService(client ImageClient, history Committer, logger logging.Logger) *StudioService {
	return &StudioService{
		client:  client,
		history: history,
		logger:  logger.With("module", "studio"),
		now:     time.Now,
		newID:   newRecordID,
	}
}

// newRecordID returns a time-ordered unique id.
func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *StudioService) Generate(ctx context.Context, apiKey string, in GenerateInput) (*Result, error) {
	in.Model, in.N, in.Size = withDefaults(in.Model, in.N, in.Size)
	if err := validateCommon(in.Model, in.N, in.Size); err != nil {
		return nil, err
	}
	if err := validatePrompt(in.Model, in.Prompt); err != nil {
		return nil, err
	}
	if in.Model == models.ModelGPTImage1 {
		if err := in.Options.Validate(); err != nil {
			return nil, err
		}
	}

	resp, err := s.client.Generate(ctx, apiKey, imagegen.GenerateRequest{
		Model:   in.Model,
		Prompt:  in.Prompt,
		N:       in.N,
		Size:    in.Size,
		Options: in.Options,
	})
	if err != nil {
		s.logger.Warn(ctx, "generate rejected", "error", err)
		return nil, fmt.Errorf("generate: %w", err)
	}

	contentType := ""
	quality := models.Quality("")
	if in.Model == models.ModelGPTImage1 {
		contentType = in.Options.OutputFormat.ContentType()
		quality = in.Options.Quality
	}

	return s.finish(ctx, resp, contentType, quality, models.Draft{
		Record: models.GenerationRecord{
			Type:   models.OpGenerate,
			Prompt: in.Prompt,
			Size:   in.Size,
			N:      in.N,
			Model:  in.Model,
		},
	})
}

func (s *StudioService) Vary(ctx context.Context, apiKey string, in VariationInput) (*Result, error) {
	in.Model, in.N, in.Size = withDefaults(in.Model, in.N, in.Size)
	if !in.Model.SupportsVariations() {
		return nil, fmt.Errorf("%w: variations are only available for %s", common.ErrorValidation, models.ModelDallE2)
	}
	if err := validateCommon(in.Model, in.N, in.Size); err != nil {
		return nil, err
	}
	if len(in.Image.Data) == 0 {
		return nil, fmt.Errorf("%w: a source image is required", common.ErrorValidation)
	}

	resp, err := s.client.Vary(ctx, apiKey, imagegen.VariationRequest{
		Model: in.Model,
		N:     in.N,
		Size:  in.Size,
		Image: in.Image,
	})
	if err != nil {
		s.logger.Warn(ctx, "variation rejected", "error", err)
		return nil, fmt.Errorf("variation: %w", err)
	}

	original := in.Image
	return s.finish(ctx, resp, "", "", models.Draft{
		Record: models.GenerationRecord{
			Type:  models.OpVariation,
			Size:  in.Size,
			N:     in.N,
			Model: in.Model,
		},
		Original: &original,
	})
}

func (s *StudioService) Edit(ctx context.Context, apiKey string, in EditInput) (*Result, error) {
	in.Model, in.N, in.Size = withDefaults(in.Model, in.N, in.Size)
	if err := validateCommon(in.Model, in.N, in.Size); err != nil {
		return nil, err
	}
	if err := validatePrompt(in.Model, in.Prompt); err != nil {
		return nil, err
	}
	if len(in.Image.Data) == 0 || len(in.Mask.Data) == 0 {
		return nil, fmt.Errorf("%w: an edit needs both a source image and a mask", common.ErrorValidation)
	}

	resp, err := s.client.Edit(ctx, apiKey, imagegen.EditRequest{
		Model:  in.Model,
		Prompt: in.Prompt,
		N:      in.N,
		Size:   in.Size,
		Image:  in.Image,
		Mask:   in.Mask,
	})
	if err != nil {
		s.logger.Warn(ctx, "edit rejected", "error", err)
		return nil, fmt.Errorf("edit: %w", err)
	}

	original, mask := in.Image, in.Mask
	return s.finish(ctx, resp, "", "", models.Draft{
		Record: models.GenerationRecord{
			Type:   models.OpEdit,
			Prompt: in.Prompt,
			Size:   in.Size,
			N:      in.N,
			Model:  in.Model,
		},
		Original: &original,
		Mask:     &mask,
	})
}

// finish decodes the response, prices it and commits the draft.
func (s *StudioService) finish(ctx context.Context, resp *imagegen.Response, contentType string, quality models.Quality, draft models.Draft) (*Result, error) {
	images, err := resp.Images(contentType)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("image service returned no images")
	}

	rec := &draft.Record
	cost := pricing.Estimate(rec.Model, rec.Size, quality, rec.N, resp.Usage)

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("record id: %w", err)
	}
	now := s.now().UTC()

	rec.ID = id
	rec.Cost = cost.Total
	rec.CreatedAt = now
	rec.RequestTime = resp.RequestTime()
	if rec.RequestTime.IsZero() {
		rec.RequestTime = now
	}
	rec.Usage = resp.Usage
	draft.Images = images

	result := &Result{Images: images, Cost: cost, Usage: resp.Usage}

	saved, err := s.history.Commit(ctx, draft)
	if err != nil {
		s.logger.Error(ctx, "failed to save images", "record", id, "error", err)
		result.SaveErr = fmt.Errorf("%w: %w", common.ErrHistoryNotSaved, err)
		return result, nil
	}
	result.Record = saved
	return result, nil
}

func withDefaults(m models.Model, n int, size models.Size) (models.Model, int, models.Size) {
	if m == "" {
		m = models.DefaultModel
	}
	if n == 0 {
		n = 1
	}
	if size == "" {
		size = m.DefaultSize()
	}
	return m, n, size
}

func validateCommon(m models.Model, n int, size models.Size) error {
	if _, err := models.ParseModel(string(m)); err != nil {
		return err
	}
	if n < 1 || n > models.MaxImagesPerRun {
		return fmt.Errorf("%w: number of images must be between 1 and %d", common.ErrorValidation, models.MaxImagesPerRun)
	}
	return m.ValidateSize(size)
}

func validatePrompt(m models.Model, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("%w: prompt is required", common.ErrorValidation)
	}
	if l := utf8.RuneCountInString(prompt); l > m.MaxPromptLength() {
		return fmt.Errorf("%w: prompt is %d characters, %s allows %d", common.ErrorValidation, l, m, m.MaxPromptLength())
	}
	return nil
}
