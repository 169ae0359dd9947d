package models

import (
	"fmt"
	"slices"

	"github.com/Yijia-Z/dalle2-app/internal/common"
)

type Model string

const (
	ModelDallE2     Model = "dall-e-2"
	ModelGPTImage1  Model = "gpt-image-1"
	DefaultModel          = ModelDallE2
	MaxImagesPerRun       = 10
)

type Size string

const (
	Size256       Size = "256x256"
	Size512       Size = "512x512"
	Size1024      Size = "1024x1024"
	Size1536x1024 Size = "1536x1024"
	Size1024x1536 Size = "1024x1536"
	SizeAuto      Size = "auto"
)

type Quality string

const (
	QualityAuto   Quality = "auto"
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

type Background string

const (
	BackgroundAuto        Background = "auto"
	BackgroundTransparent Background = "transparent"
	BackgroundOpaque      Background = "opaque"
)

type Moderation string

const (
	ModerationAuto Moderation = "auto"
	ModerationLow  Moderation = "low"
)

type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPEG OutputFormat = "jpeg"
	FormatWebP OutputFormat = "webp"
)

// ContentType maps an output format to its MIME type.
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// ImageOptions are the gpt-image-1 generation knobs. Zero values are left
// for the service to default.
type ImageOptions struct {
	Background        Background   `json:"background,omitempty"`
	Moderation        Moderation   `json:"moderation,omitempty"`
	OutputCompression *int         `json:"output_compression,omitempty"`
	OutputFormat      OutputFormat `json:"output_format,omitempty"`
	Quality           Quality      `json:"quality,omitempty"`
}

var modelSizes = map[Model][]Size{
	ModelDallE2:    {Size256, Size512, Size1024},
	ModelGPTImage1: {Size1024, Size1536x1024, Size1024x1536, SizeAuto},
}

func ParseModel(s string) (Model, error) {
	m := Model(s)
	if _, ok := modelSizes[m]; !ok {
		return "", fmt.Errorf("%w: unknown model %q", common.ErrorValidation, s)
	}
	return m, nil
}

// Sizes returns the output sizes the model accepts.
func (m Model) Sizes() []Size {
	return slices.Clone(modelSizes[m])
}

func (m Model) DefaultSize() Size {
	if m == ModelGPTImage1 {
		return SizeAuto
	}
	return Size1024
}

func (m Model) MaxPromptLength() int {
	if m == ModelGPTImage1 {
		return 32000
	}
	return 1000
}

// SupportsVariations reports whether the service offers variations for m.
func (m Model) SupportsVariations() bool {
	return m == ModelDallE2
}

// ValidateSize checks s against the model's size list.
func (m Model) ValidateSize(s Size) error {
	if !slices.Contains(modelSizes[m], s) {
		return fmt.Errorf("%w: size %q is not supported by %s", common.ErrorValidation, s, m)
	}
	return nil
}

// Validate checks option values; options only apply to gpt-image-1.
func (o ImageOptions) Validate() error {
	switch o.Background {
	case "", BackgroundAuto, BackgroundTransparent, BackgroundOpaque:
	default:
		return fmt.Errorf("%w: background %q", common.ErrorValidation, o.Background)
	}
	switch o.Moderation {
	case "", ModerationAuto, ModerationLow:
	default:
		return fmt.Errorf("%w: moderation %q", common.ErrorValidation, o.Moderation)
	}
	switch o.OutputFormat {
	case "", FormatPNG, FormatJPEG, FormatWebP:
	default:
		return fmt.Errorf("%w: output format %q", common.ErrorValidation, o.OutputFormat)
	}
	switch o.Quality {
	case "", QualityAuto, QualityHigh, QualityMedium, QualityLow:
	default:
		return fmt.Errorf("%w: quality %q", common.ErrorValidation, o.Quality)
	}
	if c := o.OutputCompression; c != nil && (*c < 0 || *c > 100) {
		return fmt.Errorf("%w: output compression %d out of range 0-100", common.ErrorValidation, *c)
	}
	if o.Background == BackgroundTransparent && o.OutputFormat == FormatJPEG {
		return fmt.Errorf("%w: transparent background requires png or webp", common.ErrorValidation)
	}
	return nil
}
