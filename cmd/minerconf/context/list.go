package contextcmd

import (
	"fmt"

	"minerconf/cmd/minerconf/ui"
	"minerconf/config"
	"minerconf/pkg/sdk/defaults"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List available contexts",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(cfg.Contexts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.InfoMsg("No contexts configured. Add one with 'minerconf context add'."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"", "NAME", "ADDRESS", "DESTINATION"}, rows(cfg)))
			return nil
		},
	}
}

func rows(cfg *config.Config) [][]string {
	var out [][]string
	for _, name := range cfg.Names() {
		c := cfg.Contexts[name]

		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}
		destination := c.Destination
		if destination == "" {
			destination = ui.Muted(defaults.Destination)
		}
		out = append(out, []string{current, name, c.Address, destination})
	}
	return out
}
