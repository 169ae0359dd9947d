package cli

import (
	"context"
	"fmt"

	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/pricing"
)

func (a *App) SetModel(_ context.Context, args []string) error {
	if len(args) > 0 {
		m, err := models.ParseModel(args[0])
		if err != nil {
			return err
		}
		a.model = m
	}

	fmt.Fprintf(a.out, "Model: %s\n", a.model)
	fmt.Fprintf(a.out, "Sizes: %v (default %s)\n", a.model.Sizes(), a.model.DefaultSize())
	fmt.Fprintf(a.out, "Max prompt length: %d\n", a.model.MaxPromptLength())
	if !a.model.SupportsVariations() {
		fmt.Fprintln(a.out, "Variations are not available for this model")
	}
	return nil
}

// Cost prints the estimated output cost of a request with the current
// model. Input tokens are billed on top for gpt-image-1 and only known
// after the request.
func (a *App) Cost(_ context.Context, args []string) error {
	fs := newFlagSet("cost", a.out)
	n := fs.Int("n", 1, "number of images")
	size := fs.String("size", "", "image size")
	quality := fs.String("quality", "", "quality (gpt-image-1)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := models.Size(*size)
	if s == "" {
		s = a.model.DefaultSize()
	}
	if err := a.model.ValidateSize(s); err != nil {
		return err
	}

	est := pricing.Estimate(a.model, s, models.Quality(*quality), *n, nil)
	fmt.Fprintf(a.out, "Estimated cost: $%.3f (%d x %s, %s)\n", est.Total, *n, s, a.model)
	if a.model == models.ModelGPTImage1 {
		fmt.Fprintf(a.out, "Plus input tokens at $%.2f per 1M\n", pricing.InputTokenRate)
	}
	fmt.Fprintf(a.out, "Session total so far: $%.3f\n", a.spent)
	return nil
}
