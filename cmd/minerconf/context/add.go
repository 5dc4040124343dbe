package contextcmd

import (
	"fmt"
	"strings"

	"minerconf/cmd/minerconf/ui"
	"minerconf/config"
	"minerconf/sdk"

	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var address, origin, destination string
	var use bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])

			if address == "" {
				return fmt.Errorf("--address is required")
			}
			if _, err := sdk.NormalizeTarget(address); err != nil {
				return fmt.Errorf("--address: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Set(name, config.Context{
				Address:     address,
				Origin:      origin,
				Destination: destination,
			}); err != nil {
				return err
			}
			if use || cfg.CurrentContext == "" {
				if err := cfg.Use(name); err != nil {
					return err
				}
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMsg("Context %s saved.", ui.Bold(name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Controller address (host:port or ws:// URL)")
	cmd.Flags().StringVar(&origin, "origin", "", "Origin header sent with the handshake")
	cmd.Flags().StringVar(&destination, "destination", "", "Default configuration file written on the controller")
	cmd.Flags().BoolVar(&use, "use", false, "Make this the current context")
	return cmd
}
