package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cytopush/pkg/observability"
	"github.com/matzehuels/cytopush/pkg/pipeline"
)

// stepMessages is the spinner text shown while moving into each state.
var stepMessages = map[string]string{
	pipeline.StateNetworkCreated.String():  "Creating network",
	pipeline.StateLayoutApplied.String():   "Applying layout",
	pipeline.StateStylesCleared.String():   "Clearing styles",
	pipeline.StateStyleRegistered.String(): "Registering style",
	pipeline.StateStyleApplied.String():    "Applying style",
}

// pushCommand creates the push command.
func (c *CLI) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file.cyjs>",
		Short: "Filter a graph and publish it to Cytoscape",
		Long: `Load a .cyjs document, keep the target node and the nodes contained in it,
then create a network in Cytoscape, apply the layout, replace the visual
styles and apply the configured style.

Nothing is sent when the target is missing or has no children. A failed step
stops the run; networks and styles created before it are left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPush(ctx context.Context, path string) error {
	spin := !c.flags.verbose
	if spin {
		// The spinner redraws its line on stderr; runner info lines would
		// split it.
		ctx = withLogger(ctx, quieted(loggerFromContext(ctx)))
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	cfg := runner.Config()

	var spinner *Spinner
	if spin {
		spinner = newSpinner(ctx, c.Err, "Filtering "+path)
		observability.SetPushHooks(&spinnerHooks{spinner: spinner})
		defer observability.SetPushHooks(observability.NoopPushHooks{})
		spinner.Start()
	}

	res, err := runner.Run(ctx, path)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		var se *pipeline.StepError
		if stderrors.As(err, &se) && res != nil && res.NetworkSUID != 0 {
			c.printWarning("network %d was created and is left on the server", res.NetworkSUID)
		}
		return err
	}

	nodes, edges := res.Filter.Size()
	c.printSuccess("Pushed %s to %s", path, cfg.BaseURL)
	c.printKeyValue("Network", StyleNumber.Render(fmt.Sprint(res.NetworkSUID)))
	c.printKeyValue("Target", cfg.Target)
	c.printKeyValue("Layout", cfg.Layout)
	c.printKeyValue("Style", res.StyleTitle)
	c.printStats(nodes, edges)
	if res.StyleTitle != cfg.Style.Title {
		c.printInfo("Cytoscape registered the style as %q", res.StyleTitle)
	}
	c.printDetail("run %s in %s", res.RunID, res.Duration.Round(time.Millisecond))
	return nil
}

// spinnerHooks mirrors push progress in the spinner text.
type spinnerHooks struct {
	observability.NoopPushHooks
	spinner *Spinner
}

func (h *spinnerHooks) OnStepStart(_ context.Context, _, step string) {
	if msg, ok := stepMessages[step]; ok {
		h.spinner.SetMessage(msg)
	}
}
