package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/common"
)

// Operation is the kind of request that produced a record.
type Operation string

const (
	OpGenerate  Operation = "generate"
	OpEdit      Operation = "edit"
	OpVariation Operation = "variation"
)

func (o Operation) Valid() bool {
	return o == OpGenerate || o == OpEdit || o == OpVariation
}

// Usage is the token report returned by token-billed models.
type Usage struct {
	InputTokens        int                 `json:"input_tokens"`
	InputTokensDetails *InputTokensDetails `json:"input_tokens_details,omitempty"`
	OutputTokens       int                 `json:"output_tokens"`
	TotalTokens        int                 `json:"total_tokens"`
}

type InputTokensDetails struct {
	TextTokens  int `json:"text_tokens"`
	ImageTokens int `json:"image_tokens"`
}

// GenerationRecord is one persisted history entry. Image fields hold blob
// store keys, never image bytes.
type GenerationRecord struct {
	ID            string    `json:"id"`
	Type          Operation `json:"type"`
	Prompt        string    `json:"prompt,omitempty"`
	Size          Size      `json:"size"`
	N             int       `json:"n"`
	Cost          float64   `json:"cost"`
	CreatedAt     time.Time `json:"createdAt"`
	RequestTime   time.Time `json:"requestTime"`
	Model         Model     `json:"model"`
	OriginalImage string    `json:"originalImage,omitempty"`
	MaskImage     string    `json:"maskImage,omitempty"`
	Images        []string  `json:"images"`
	Usage         *Usage    `json:"usage,omitempty"`
}

// Draft is a record before commit: the record metadata plus the inline
// images that still have to be written to the blob store.
type Draft struct {
	Record   GenerationRecord
	Images   []Image
	Original *Image
	Mask     *Image
}

func OutputKey(recordID string, index int) string {
	return recordID + "_" + strconv.Itoa(index)
}

func OriginalKey(recordID string) string {
	return recordID + "_original"
}

func MaskKey(recordID string) string {
	return recordID + "_mask"
}

// BlobKeys lists every blob key the record references.
func (r *GenerationRecord) BlobKeys() []string {
	keys := make([]string, 0, len(r.Images)+2)
	if r.OriginalImage != "" {
		keys = append(keys, r.OriginalImage)
	}
	if r.MaskImage != "" {
		keys = append(keys, r.MaskImage)
	}
	return append(keys, r.Images...)
}

// CheckKeys verifies that every image field holds the key derived from the
// record id, which also rules out inline data.
func (r *GenerationRecord) CheckKeys() error {
	if r.OriginalImage != "" && r.OriginalImage != OriginalKey(r.ID) {
		return fmt.Errorf("%w: originalImage of %s", common.ErrInlineData, r.ID)
	}
	if r.MaskImage != "" && r.MaskImage != MaskKey(r.ID) {
		return fmt.Errorf("%w: maskImage of %s", common.ErrInlineData, r.ID)
	}
	for i, k := range r.Images {
		if k != OutputKey(r.ID, i) {
			return fmt.Errorf("%w: images[%d] of %s", common.ErrInlineData, i, r.ID)
		}
	}
	return nil
}
