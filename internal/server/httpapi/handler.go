// Package httpapi exposes the image studio over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/pricing"
	"github.com/Yijia-Z/dalle2-app/internal/services"
	"github.com/gin-gonic/gin"
)

// DefaultMaxUpload bounds the multipart body of variation and edit requests.
const DefaultMaxUpload int64 = 25 << 20

type Studio interface {
	Generate(ctx context.Context, apiKey string, in services.GenerateInput) (*services.Result, error)
	Vary(ctx context.Context, apiKey string, in services.VariationInput) (*services.Result, error)
	Edit(ctx context.Context, apiKey string, in services.EditInput) (*services.Result, error)
}

type History interface {
	List(ctx context.Context) ([]models.GenerationRecord, error)
	Get(ctx context.Context, id string) (*models.GenerationRecord, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	Image(ctx context.Context, key string) (*models.Image, error)
	ResolveImage(ctx context.Context, key string) (string, error)
}

type Handler struct {
	studio    Studio
	history   History
	apiKey    string
	maxUpload int64
	logger    logging.Logger
}

// NewHandler builds the route handlers. apiKey is used when a request does
// not bring its own X-OpenAI-Key.
func NewHandler(studio Studio, history History, apiKey string, logger logging.Logger) *Handler {
	return &Handler{
		studio:    studio,
		history:   history,
		apiKey:    apiKey,
		maxUpload: DefaultMaxUpload,
		logger:    logger.With("module", "http"),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) openAIKey(c *gin.Context) (string, error) {
	if key := strings.TrimSpace(c.GetHeader(common.OpenAIKeyHeaderName)); key != "" {
		return key, nil
	}
	if h.apiKey != "" {
		return h.apiKey, nil
	}
	return "", common.ErrNoAPIKey
}

func (h *Handler) Generate(c *gin.Context) {
	key, err := h.openAIKey(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	res, err := h.studio.Generate(c.Request.Context(), key, services.GenerateInput{
		Model:   models.Model(req.Model),
		Prompt:  req.Prompt,
		N:       req.N,
		Size:    models.Size(req.Size),
		Options: req.options(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newImagesResponse(res))
}

// Variations expects a multipart form with an "image" file and optional
// model, n and size fields.
func (h *Handler) Variations(c *gin.Context) {
	key, err := h.openAIKey(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.limitBody(c); err != nil {
		h.fail(c, err)
		return
	}

	img, err := formImage(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := formInt(c, "n")
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.studio.Vary(c.Request.Context(), key, services.VariationInput{
		Model: models.Model(c.PostForm("model")),
		N:     n,
		Size:  models.Size(c.PostForm("size")),
		Image: img,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newImagesResponse(res))
}

// Edits expects "image" and "mask" files plus a prompt.
func (h *Handler) Edits(c *gin.Context) {
	key, err := h.openAIKey(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.limitBody(c); err != nil {
		h.fail(c, err)
		return
	}

	img, err := formImage(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}
	mask, err := formImage(c, "mask")
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := formInt(c, "n")
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.studio.Edit(c.Request.Context(), key, services.EditInput{
		Model:  models.Model(c.PostForm("model")),
		Prompt: c.PostForm("prompt"),
		N:      n,
		Size:   models.Size(c.PostForm("size")),
		Image:  img,
		Mask:   mask,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newImagesResponse(res))
}

// ListHistory returns every record, newest first. With ?inline=true the
// blob keys are replaced by data URLs.
func (h *Handler) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.history.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	inline := inlineRequested(c)
	resp := HistoryResponse{Records: list}
	for i := range resp.Records {
		resp.Total += resp.Records[i].Cost
		if inline {
			h.inline(ctx, &resp.Records[i])
		}
	}
	if resp.Records == nil {
		resp.Records = []models.GenerationRecord{}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if inlineRequested(c) {
		h.inline(c.Request.Context(), rec)
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	n, err := h.history.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{Deleted: n})
}

// DeleteRecords removes several records at once. Unknown ids are skipped.
func (h *Handler) DeleteRecords(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}
	if len(req.IDs) == 0 {
		h.fail(c, fmt.Errorf("%w: ids must not be empty", common.ErrorValidation))
		return
	}

	n, err := h.history.Delete(c.Request.Context(), req.IDs...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{Deleted: n})
}

// Blob streams a stored image with its recorded content type. Keys are
// never reused, so the response may be cached indefinitely.
func (h *Handler) Blob(c *gin.Context) {
	img, err := h.history.Image(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=31536000, immutable")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// Cost prices a prospective request without calling the image service.
func (h *Handler) Cost(c *gin.Context) {
	model := models.DefaultModel
	if s := c.Query("model"); s != "" {
		m, err := models.ParseModel(s)
		if err != nil {
			h.fail(c, err)
			return
		}
		model = m
	}

	size := model.DefaultSize()
	if s := c.Query("size"); s != "" {
		size = models.Size(s)
	}
	if err := model.ValidateSize(size); err != nil {
		h.fail(c, err)
		return
	}

	n := 1
	if s := c.Query("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > models.MaxImagesPerRun {
			h.fail(c, fmt.Errorf("%w: n must be between 1 and %d", common.ErrorValidation, models.MaxImagesPerRun))
			return
		}
		n = v
	}

	resp := CostResponse{Model: model, Size: size, N: n}
	if model == models.ModelGPTImage1 {
		resp.Quality = models.Quality(c.Query("quality"))
		if err := (models.ImageOptions{Quality: resp.Quality}).Validate(); err != nil {
			h.fail(c, err)
			return
		}
		resp.InputTokenRate = pricing.InputTokenRate
	}
	resp.Cost = pricing.Estimate(model, size, resp.Quality, n, nil)
	c.JSON(http.StatusOK, resp)
}

// inline swaps rec's blob keys for data URLs. A blob that cannot be loaded
// is rendered as an empty string.
func (h *Handler) inline(ctx context.Context, rec *models.GenerationRecord) {
	resolve := func(key string) string {
		if key == "" {
			return ""
		}
		url, err := h.history.ResolveImage(ctx, key)
		if err != nil {
			h.logger.Warn(ctx, "image unavailable", "key", key, "error", err)
			return ""
		}
		return url
	}

	images := make([]string, len(rec.Images))
	for i, key := range rec.Images {
		images[i] = resolve(key)
	}
	rec.Images = images
	rec.OriginalImage = resolve(rec.OriginalImage)
	rec.MaskImage = resolve(rec.MaskImage)
}

// limitBody rejects declared oversize bodies outright and caps the rest.
func (h *Handler) limitBody(c *gin.Context) error {
	if c.Request.ContentLength > h.maxUpload {
		return fmt.Errorf("%w: limit is %d bytes", errUploadTooLarge, h.maxUpload)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	return nil
}

func inlineRequested(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("inline"))
	return v
}

func newImagesResponse(res *services.Result) ImagesResponse {
	resp := ImagesResponse{
		Record: res.Record,
		Images: make([]string, len(res.Images)),
		Cost:   res.Cost,
		Usage:  res.Usage,
	}
	for i, img := range res.Images {
		resp.Images[i] = img.DataURL()
	}
	if res.SaveErr != nil {
		resp.SaveError = res.SaveErr.Error()
	}
	return resp
}

func formImage(c *gin.Context, field string) (models.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return models.Image{}, fmt.Errorf("%w: limit is %d bytes", errUploadTooLarge, tooLarge.Limit)
		case errors.Is(err, http.ErrMissingFile):
			return models.Image{}, fmt.Errorf("%w: %s file is required", common.ErrorValidation, field)
		default:
			return models.Image{}, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Image{}, err
	}
	if len(data) == 0 {
		return models.Image{}, fmt.Errorf("%w: %s file is empty", common.ErrorValidation, field)
	}
	return models.NewImage(data, ""), nil
}

func formInt(c *gin.Context, field string) (int, error) {
	s := c.PostForm(field)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", common.ErrorValidation, field)
	}
	return v, nil
}
