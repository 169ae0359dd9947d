package httpapi

import (
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/pricing"
)

// GenerateRequest mirrors the image service's generation body. The
// gpt-image-1 options are ignored for dall-e-2.
type GenerateRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	N                 int    `json:"n"`
	Size              string `json:"size"`
	Background        string `json:"background"`
	Moderation        string `json:"moderation"`
	OutputCompression *int   `json:"output_compression"`
	OutputFormat      string `json:"output_format"`
	Quality           string `json:"quality"`
}

func (r GenerateRequest) options() models.ImageOptions {
	return models.ImageOptions{
		Background:        models.Background(r.Background),
		Moderation:        models.Moderation(r.Moderation),
		OutputCompression: r.OutputCompression,
		OutputFormat:      models.OutputFormat(r.OutputFormat),
		Quality:           models.Quality(r.Quality),
	}
}

// ImagesResponse carries the produced images as data URLs. When the
// history could not be written Record is absent and SaveError is set.
type ImagesResponse struct {
	Record    *models.GenerationRecord `json:"record,omitempty"`
	Images    []string                 `json:"images"`
	Cost      pricing.Breakdown        `json:"cost"`
	Usage     *models.Usage            `json:"usage,omitempty"`
	SaveError string                   `json:"saveError,omitempty"`
}

type HistoryResponse struct {
	Records []models.GenerationRecord `json:"records"`
	Total   float64                   `json:"total"`
}

type DeleteRequest struct {
	IDs []string `json:"ids"`
}

type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

type CostResponse struct {
	Model          models.Model      `json:"model"`
	Size           models.Size       `json:"size"`
	Quality        models.Quality    `json:"quality,omitempty"`
	N              int               `json:"n"`
	Cost           pricing.Breakdown `json:"cost"`
	InputTokenRate float64           `json:"inputTokenRate,omitempty"`
}
