package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cytopush/pkg/errors"
)

// styleCommand prints the style push would register.
func (c *CLI) styleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "style",
		Short: "Print the effective visual style as CyREST JSON",
		Long: `Print the style that push registers: the file given with --style (or
style_file in the config), otherwise the built-in containment style.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.settings.loadStyle()
			if err != nil {
				return err
			}
			if err := st.Validate(); err != nil {
				return err
			}
			enc := json.NewEncoder(c.Out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(st); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode style")
			}
			return nil
		},
	}
}
