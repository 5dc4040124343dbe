package devcmd

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minerconf/cmd/minerconf/ui"
	"minerconf/internal/hardware"
	"minerconf/internal/mockcontroller"
	"minerconf/pkg/sdk/defaults"

	"github.com/spf13/cobra"
)

// Cmd returns the hidden "minerconf dev" command group.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development helpers",
		Hidden: true,
	}
	cmd.AddCommand(mockControllerCmd())
	return cmd
}

func mockControllerCmd() *cobra.Command {
	var (
		listen       string
		snapshotPath string
		rejectSave   bool
		reload       string
		restartDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mock-controller",
		Short: "Run a local controller speaking the command channel protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := mockcontroller.ParseReloadMode(reload)
			if err != nil {
				return fmt.Errorf("--reload: %w", err)
			}
			snap := mockcontroller.DefaultSnapshot()
			if snapshotPath != "" {
				if snap, err = loadSnapshot(snapshotPath); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := mockcontroller.New(mockcontroller.Config{
				Snapshot:     snap,
				RejectSave:   rejectSave,
				Reload:       mode,
				RestartDelay: restartDelay,
			})
			out := cmd.ErrOrStderr()
			return srv.ListenAndServe(ctx, listen, func(addr net.Addr) {
				fmt.Fprintln(out, ui.InfoMsg("mock controller listening on ws://%s/ (reload %s)", addr, mode))
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", defaults.ControllerAddress, "Address to listen on")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "JSON file holding the systemInfo reply")
	cmd.Flags().BoolVar(&rejectSave, "reject-save", false, "Answer every save with false")
	cmd.Flags().StringVar(&reload, "reload", string(mockcontroller.ReloadOpen), "Reload behaviour: open, closed or drop")
	cmd.Flags().DurationVar(&restartDelay, "restart-delay", 2*time.Second, "Refuse connections this long after a reload")
	return cmd
}

func loadSnapshot(path string) (hardware.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hardware.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap hardware.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return hardware.Snapshot{}, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snap, nil
}
