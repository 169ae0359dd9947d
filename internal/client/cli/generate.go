package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yijia-Z/dalle2-app/internal/filex"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/services"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

func (a *App) Generate(ctx context.Context, args []string) error {
	fs := newFlagSet("generate", a.out)
	n := fs.Int("n", 1, "number of images")
	size := fs.String("size", "", "image size")
	quality := fs.String("quality", "", "quality (gpt-image-1)")
	format := fs.String("format", "", "output format: png, jpeg, webp (gpt-image-1)")
	background := fs.String("background", "", "background: auto, transparent, opaque (gpt-image-1)")
	moderation := fs.String("moderation", "", "moderation: auto, low (gpt-image-1)")
	compression := fs.Int("compression", -1, "output compression 0-100 (gpt-image-1)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := services.GenerateInput{
		Model:  a.model,
		Prompt: strings.Join(fs.Args(), " "),
		N:      *n,
		Size:   models.Size(*size),
		Options: models.ImageOptions{
			Background:   models.Background(*background),
			Moderation:   models.Moderation(*moderation),
			OutputFormat: models.OutputFormat(*format),
			Quality:      models.Quality(*quality),
		},
	}
	if *compression >= 0 {
		in.Options.OutputCompression = compression
	}

	key, err := a.requireKey(ctx)
	if err != nil {
		return err
	}

	printlnFn("Generating...")
	res, err := a.studio.Generate(ctx, key, in)
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

func (a *App) Vary(ctx context.Context, args []string) error {
	fs := newFlagSet("vary", a.out)
	n := fs.Int("n", 1, "number of images")
	size := fs.String("size", "", "image size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: vary [-n N] [-size S] <image file>")
	}

	img, err := filex.ReadImage(fs.Arg(0))
	if err != nil {
		return err
	}

	key, err := a.requireKey(ctx)
	if err != nil {
		return err
	}

	printlnFn("Creating variations...")
	res, err := a.studio.Vary(ctx, key, services.VariationInput{
		Model: a.model,
		N:     *n,
		Size:  models.Size(*size),
		Image: img,
	})
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	fs := newFlagSet("edit", a.out)
	n := fs.Int("n", 1, "number of images")
	size := fs.String("size", "", "image size")
	maskPath := fs.String("mask", "", "mask image file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *maskPath == "" || fs.NArg() < 2 {
		return errors.New("usage: edit [-n N] [-size S] -mask <mask file> <image file> <prompt>")
	}

	img, err := filex.ReadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	mask, err := filex.ReadImage(*maskPath)
	if err != nil {
		return err
	}

	key, err := a.requireKey(ctx)
	if err != nil {
		return err
	}

	printlnFn("Editing...")
	res, err := a.studio.Edit(ctx, key, services.EditInput{
		Model:  a.model,
		Prompt: strings.Join(fs.Args()[1:], " "),
		N:      *n,
		Size:   models.Size(*size),
		Image:  img,
		Mask:   mask,
	})
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

// report prints a finished request. Images that could not be saved to
// history are written to the export directory under a per-request name so
// they are not lost.
func (a *App) report(res *services.Result) {
	a.spent += res.Cost.Total

	if res.SaveErr != nil {
		color.New(color.FgYellow).Fprintf(a.out, "Error saving images: %v\n", res.SaveErr)
		a.writeUnsaved(res.Images)
	} else {
		color.New(color.FgGreen).Fprintf(a.out, "Saved %d image(s) as %s\n", len(res.Images), res.Record.ID)
	}

	fmt.Fprintf(a.out, "Cost: $%.3f", res.Cost.Total)
	if res.Cost.Input > 0 {
		fmt.Fprintf(a.out, " (input $%.4f, output $%.3f)", res.Cost.Input, res.Cost.Output)
	}
	fmt.Fprintf(a.out, ", session total $%.3f\n", a.spent)
}

func (a *App) writeUnsaved(images []models.Image) {
	dir, err := filex.EnsureDir(a.exportDir())
	if err != nil {
		a.logger.Error(context.Background(), "cannot create export dir", "error", err)
		return
	}
	batch, err := uuid.NewV7()
	if err != nil {
		a.logger.Error(context.Background(), "cannot name unsaved images", "error", err)
		return
	}
	for i, img := range images {
		path, err := filex.WriteImage(dir, fmt.Sprintf("unsaved_%s_%d", batch, i), img)
		if err != nil {
			a.logger.Error(context.Background(), "cannot write image", "error", err)
			continue
		}
		fmt.Fprintf(a.out, "  wrote %s\n", path)
	}
}
