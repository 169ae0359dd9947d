package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/filex"
	"github.com/fatih/color"
)

const promptPreview = 40

func (a *App) List(ctx context.Context, _ []string) error {
	list, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "History is empty")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tMODEL\tSIZE\tN\tCOST\tCREATED\tPROMPT")
	var total float64
	for _, r := range list {
		total += r.Cost
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t$%.3f\t%s\t%s\n",
			r.ID, r.Type, r.Model, r.Size, r.N, r.Cost,
			r.CreatedAt.Local().Format(time.DateTime), preview(r.Prompt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d record(s), total $%.3f\n", len(list), total)
	return nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > promptPreview {
		return string(r[:promptPreview-1]) + "…"
	}
	return s
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <id>")
	}
	r, err := a.history.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("record %s: %w", args[0], err)
	}

	fmt.Fprintf(a.out, "ID:       %s\n", r.ID)
	fmt.Fprintf(a.out, "Type:     %s\n", r.Type)
	fmt.Fprintf(a.out, "Model:    %s\n", r.Model)
	if r.Prompt != "" {
		fmt.Fprintf(a.out, "Prompt:   %s\n", r.Prompt)
	}
	fmt.Fprintf(a.out, "Size:     %s x%d\n", r.Size, r.N)
	fmt.Fprintf(a.out, "Cost:     $%.3f\n", r.Cost)
	fmt.Fprintf(a.out, "Created:  %s\n", r.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(a.out, "Request:  %s\n", r.RequestTime.Local().Format(time.DateTime))
	if r.Usage != nil {
		fmt.Fprintf(a.out, "Tokens:   %d in, %d out\n", r.Usage.InputTokens, r.Usage.OutputTokens)
	}
	if r.OriginalImage != "" {
		fmt.Fprintf(a.out, "Original: %s\n", r.OriginalImage)
	}
	if r.MaskImage != "" {
		fmt.Fprintf(a.out, "Mask:     %s\n", r.MaskImage)
	}
	fmt.Fprintf(a.out, "Images:   %s\n", strings.Join(r.Images, ", "))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: delete <id>...")
	}
	n, err := a.history.Delete(ctx, args...)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(a.out, "Deleted %d record(s)\n", n)
	return nil
}

// Export writes every image of a record, including the source and mask of
// edits and variations, to a directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: export <id> [dir]")
	}
	r, err := a.history.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("record %s: %w", args[0], err)
	}

	target := a.exportDir()
	if len(args) == 2 {
		target = args[1]
	}
	dir, err := filex.EnsureDir(target)
	if err != nil {
		return err
	}

	for _, key := range r.BlobKeys() {
		img, err := a.history.Image(ctx, key)
		if err != nil {
			return fmt.Errorf("image %s: %w", key, err)
		}
		path, err := filex.WriteImage(dir, key, *img)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wrote %s\n", path)
	}
	return nil
}
