package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// layoutsCommand lists the layout algorithms the server offers.
func (c *CLI) layoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the layout algorithms available in Cytoscape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			names, err := client.Layouts(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				marker := " "
				if name == c.settings.Layout {
					marker = iconArrow
				}
				fmt.Fprintln(c.Out, StyleDim.Render(marker)+" "+name)
			}
			return nil
		},
	}
}

// statusCommand reports whether a CyREST server is reachable.
func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of the Cytoscape instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			st, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			c.printSuccess("Cytoscape is reachable at %s", client.BaseURL())
			c.printKeyValue("API", st.APIVersion)
			c.printKeyValue("Cores", strconv.Itoa(st.NumberOfCores))
			for _, key := range []string{"usedMemory", "freeMemory", "totalMemory", "maxMemory"} {
				if v, ok := st.MemoryStatus[key]; ok {
					c.printKeyValue(key, fmt.Sprintf("%d MB", v))
				}
			}
			return nil
		},
	}
}
