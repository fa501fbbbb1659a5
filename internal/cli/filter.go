package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cytopush/pkg/containment"
	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/pipeline"
)

// filterCommand creates the filter command, which writes the reduced
// document instead of publishing it.
func (c *CLI) filterCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "filter <file.cyjs>",
		Short: "Write the containment subtree of a graph as .cyjs",
		Long: `Apply the same filter as push and write the result as a .cyjs document,
to stdout or to the file given with --output. No server is contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.loadFiltered(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return cyjs.WriteJSON(res.Doc, c.Out)
			}
			if err := errors.ValidatePath(output); err != nil {
				return err
			}
			if err := cyjs.ExportJSON(res.Doc, output); err != nil {
				return err
			}
			nodes, edges := res.Size()
			c.printSuccess("Filtered %s", args[0])
			c.printStats(nodes, edges)
			c.printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// loadFiltered reads path and applies the configured containment filter.
func (c *CLI) loadFiltered(ctx context.Context, path string) (containment.Result, pipeline.Config, error) {
	cfg, err := c.settings.pipelineConfig()
	if err != nil {
		return containment.Result{}, cfg, err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	doc, err := cyjs.ImportJSON(path)
	if err != nil {
		return containment.Result{}, cfg, err
	}
	res, err := cfg.Filter(doc)
	if err != nil {
		return res, cfg, err
	}
	stats := cyjs.Stats(doc)
	logger.Debug("loaded", "file", path, "nodes", stats.Nodes, "edges", stats.Edges, "relations", stats.Relations)
	nodes, _ := res.Size()
	prog.done(fmt.Sprintf("Kept %d of %d nodes under %s", nodes, stats.Nodes, cfg.Target))
	return res, cfg, nil
}
