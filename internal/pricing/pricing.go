// Package pricing estimates the dollar cost of image requests from the
// published per-image and per-token rates.
package pricing

import "github.com/Yijia-Z/dalle2-app/internal/models"

// InputTokenRate is the gpt-image-1 price per one million input tokens.
const InputTokenRate = 10.00

const (
	dallE2Fallback   = 0.020
	gptImageFallback = 0.042
	tokensPerMillion = 1_000_000
)

var dallE2PerImage = map[models.Size]float64{
	models.Size256:  0.016,
	models.Size512:  0.018,
	models.Size1024: 0.020,
	models.SizeAuto: 0.020,
}

var gptImagePerImage = map[models.Quality]map[models.Size]float64{
	models.QualityLow: {
		models.Size1024:      0.011,
		models.Size1024x1536: 0.016,
		models.Size1536x1024: 0.016,
		models.SizeAuto:      0.011,
	},
	models.QualityMedium: {
		models.Size1024:      0.042,
		models.Size1024x1536: 0.063,
		models.Size1536x1024: 0.063,
		models.SizeAuto:      0.042,
	},
	models.QualityHigh: {
		models.Size1024:      0.167,
		models.Size1024x1536: 0.25,
		models.Size1536x1024: 0.25,
		models.SizeAuto:      0.167,
	},
}

// PerImage returns the price of a single output image. Unknown models cost 0.
func PerImage(model models.Model, size models.Size, quality models.Quality) float64 {
	switch model {
	case models.ModelDallE2:
		if p, ok := dallE2PerImage[size]; ok {
			return p
		}
		return dallE2Fallback
	case models.ModelGPTImage1:
		if quality == models.QualityAuto || quality == "" {
			quality = models.QualityMedium
		}
		if p, ok := gptImagePerImage[quality][size]; ok {
			return p
		}
		return gptImageFallback
	default:
		return 0
	}
}

// Output is the cost of n images.
func Output(model models.Model, size models.Size, quality models.Quality, n int) float64 {
	return PerImage(model, size, quality) * float64(n)
}

// Input is the cost of the input tokens reported in usage. Only gpt-image-1
// bills input tokens.
func Input(model models.Model, usage *models.Usage) float64 {
	if model != models.ModelGPTImage1 || usage == nil {
		return 0
	}
	return float64(usage.InputTokens) / tokensPerMillion * InputTokenRate
}

// Breakdown splits a request's cost into its parts.
type Breakdown struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
	Total  float64 `json:"total"`
}

func Estimate(model models.Model, size models.Size, quality models.Quality, n int, usage *models.Usage) Breakdown {
	b := Breakdown{
		Input:  Input(model, usage),
		Output: Output(model, size, quality, n),
	}
	b.Total = b.Input + b.Output
	return b
}
