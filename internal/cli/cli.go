// Package cli implements the cytopush command-line interface.
//
// # Commands
//
//   - push: filter a .cyjs document and publish it to Cytoscape
//   - filter: write the filtered document without contacting the server
//   - preview: render the filtered document locally (DOT, SVG, PNG)
//   - style: print the effective visual style
//   - layouts, status: query the running Cytoscape instance
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings are resolved once per invocation, in increasing precedence:
// built-in defaults, the TOML config file, CYTOPUSH_* environment
// variables, command-line flags. See [settings].
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers observability hooks that trace every step and HTTP request.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cytopush/pkg/buildinfo"
	"github.com/matzehuels/cytopush/pkg/cyrest"
	"github.com/matzehuels/cytopush/pkg/observability"
	"github.com/matzehuels/cytopush/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cytopush"

	// envPrefix prefixes every environment variable read by the CLI.
	envPrefix = "CYTOPUSH_"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; Err receives the spinner.
	Out io.Writer
	Err io.Writer

	// Getenv reads environment variables; tests replace it.
	Getenv func(string) string

	flags    flagValues
	settings settings
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
		Getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Push containment subtrees of Cytoscape graphs to a running Cytoscape",
		Long: `cytopush loads a Cytoscape.js (.cyjs) graph, reduces it to one node and the
nodes contained in it, and publishes the result to a running Cytoscape desktop
through CyREST, applying a layout and a visual style.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.flags.register(root.PersistentFlags())

	root.AddCommand(c.pushCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun resolves settings and logging before any command runs.
func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	level := LogInfo
	if c.flags.verbose {
		level = LogDebug
		hooks := &logHooks{logger: c.Logger}
		observability.SetPushHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	s, err := resolveSettings(cmd.Flags(), c.flags, c.Getenv)
	if err != nil {
		return err
	}
	c.settings = s
	if s.ConfigFile != "" {
		c.Logger.Debug("config loaded", "file", s.ConfigFile)
	}
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a push runner from the resolved settings.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg, err := c.settings.pipelineConfig()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	return pipeline.New(cfg, logger, c.clientOptions(logger)...)
}

// newClient creates a bare CyREST client for query commands.
func (c *CLI) newClient(ctx context.Context) (*cyrest.Client, error) {
	return cyrest.NewClient(c.settings.baseURL(), c.clientOptions(loggerFromContext(ctx))...)
}

func (c *CLI) clientOptions(logger *log.Logger) []cyrest.Option {
	opts := []cyrest.Option{cyrest.WithLogger(logger)}
	if c.settings.Timeout > 0 {
		opts = append(opts, cyrest.WithTimeout(c.settings.Timeout))
	}
	return opts
}
