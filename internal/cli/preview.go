package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// previewOpts holds the flags of the preview command.
type previewOpts struct {
	output   string  // output file; derived from the input when empty
	format   string  // dot, svg or png
	detailed bool    // add ids and edge types to labels
	rankdir  string  // Graphviz rank direction
	scale    float64 // PNG scale factor
}

// previewCommand creates the preview command for local rendering.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: formatSVG, rankdir: "BT", scale: 2}

	cmd := &cobra.Command{
		Use:   "preview <file.cyjs>",
		Short: "Render the containment subtree locally with Graphviz",
		Long: `Apply the same filter as push and draw the result with the configured style's
colours and line types. DOT output goes to stdout unless --output is set; SVG
and PNG default to <input>.svg / <input>.png in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and edge types")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", opts.rankdir, "Graphviz rank direction: BT, TB, LR, RL")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func validateFormat(f string) error {
	switch f {
	case formatDOT, formatSVG, formatPNG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png', or 'dot')", f)
}

func (c *CLI) runPreview(ctx context.Context, path string, opts previewOpts) error {
	res, cfg, err := c.loadFiltered(ctx, path)
	if err != nil {
		return err
	}

	dot := render.ToDOT(res.Doc, render.Options{
		Style:    &cfg.Style,
		RankDir:  strings.ToUpper(opts.rankdir),
		Detailed: opts.detailed,
	})

	var data []byte
	switch opts.format {
	case formatDOT:
		if opts.output == "" {
			_, err := io.WriteString(c.Out, dot)
			return err
		}
		data = []byte(dot)
	case formatSVG:
		data, err = render.RenderSVG(dot)
	case formatPNG:
		data, err = render.RenderPNG(dot, opts.scale)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.format)
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + opts.format
	}
	if err := errors.ValidatePath(out); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
	}

	nodes, edges := res.Size()
	c.printSuccess("Rendered %s", fmt.Sprintf("%s (%s)", cfg.Target, opts.format))
	c.printStats(nodes, edges)
	c.printFile(out)
	return nil
}
