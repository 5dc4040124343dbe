package main

import (
	"fmt"
	"os"

	algoscmd "minerconf/cmd/minerconf/algos"
	contextcmd "minerconf/cmd/minerconf/context"
	devcmd "minerconf/cmd/minerconf/dev"
	historycmd "minerconf/cmd/minerconf/history"
	probecmd "minerconf/cmd/minerconf/probe"
	"minerconf/cmd/minerconf/setup"
	"minerconf/cmd/minerconf/ui"
	"minerconf/internal/buildinfo"
	"minerconf/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug         bool
		noInteraction bool
		address       string
		contextName   string
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "minerconf",
		Short:         "Configure an M8M mining controller",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}
			ui.ConfigureInteraction(noInteraction)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noInteraction, "no-interaction", false, "Never prompt; fail when a value is missing")

	// Connection flags, available to all subcommands.
	root.PersistentFlags().StringVar(&address, "address", "", "Controller address (host:port or ws:// URL)")
	root.PersistentFlags().StringVar(&contextName, "context", "", "Context name to use")

	root.AddCommand(setup.Cmd(&address, &contextName))
	root.AddCommand(probecmd.Cmd(&address, &contextName))
	root.AddCommand(algoscmd.Cmd())
	root.AddCommand(historycmd.Cmd())
	root.AddCommand(contextcmd.Cmd())
	root.AddCommand(devcmd.Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
