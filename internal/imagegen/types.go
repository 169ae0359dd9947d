package imagegen

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/models"
)

type GenerateRequest struct {
	Model   models.Model
	Prompt  string
	N       int
	Size    models.Size
	Options models.ImageOptions
}

type VariationRequest struct {
	Model models.Model
	N     int
	Size  models.Size
	Image models.Image
}

type EditRequest struct {
	Model  models.Model
	Prompt string
	N      int
	Size   models.Size
	Image  models.Image
	Mask   models.Image
}

type ImageData struct {
	B64JSON       string `json:"b64_json"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Response is the body of a successful images call.
type Response struct {
	Created int64         `json:"created"`
	Data    []ImageData   `json:"data"`
	Usage   *models.Usage `json:"usage,omitempty"`
}

// RequestTime converts the service's creation timestamp (unix seconds).
func (r *Response) RequestTime() time.Time {
	if r.Created == 0 {
		return time.Time{}
	}
	return time.Unix(r.Created, 0).UTC()
}

// Images decodes every returned image, labelling it with contentType (or a
// sniffed type when contentType is empty).
func (r *Response) Images(contentType string) ([]models.Image, error) {
	out := make([]models.Image, 0, len(r.Data))
	for i, d := range r.Data {
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		out = append(out, models.NewImage(data, contentType))
	}
	return out, nil
}
