package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"minerconf/cmd/minerconf/cmdutil"
	"minerconf/cmd/minerconf/ui"
	"minerconf/config"
	"minerconf/infra/sqlite"
	"minerconf/internal/algo"
	"minerconf/internal/apply"
	"minerconf/internal/commit"
	"minerconf/internal/hardware"
	"minerconf/internal/wizard"
	"minerconf/pkg/sdk/defaults"
	"minerconf/sdk"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type options struct {
	destination   string
	yes           bool
	waitReconnect time.Duration
	noHistory     bool
	values        map[wizard.Field]*string
}

// Cmd returns the "minerconf setup" command.
func Cmd(addressFlag, contextFlag *string) *cobra.Command {
	opts := options{values: make(map[wizard.Field]*string)}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure a controller with the easy-config wizard",
		Long: "Walks through algorithm, pool and intensity choices, probes the controller's\n" +
			"devices to scale intensity, saves the configuration and reloads the miner.\n" +
			"Every prompt can be answered with a flag for non-interactive use.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *addressFlag, *contextFlag, opts)
		},
	}

	for _, step := range wizard.Steps() {
		for _, f := range step.Fields() {
			v := new(string)
			opts.values[f] = v
			cmd.Flags().StringVar(v, f.String(), "", f.Label())
		}
	}
	cmd.Flags().StringVar(&opts.destination, "destination", "", "Configuration file written on the controller")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Save without asking for confirmation")
	cmd.Flags().DurationVar(&opts.waitReconnect, "wait-reconnect", 0, "After a restart with open connection, wait up to this long for the controller to come back")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record the commit in the local history")
	return cmd
}

func run(cmd *cobra.Command, addressFlag, contextFlag string, opts options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	target, err := cmdutil.Resolve(cfg, addressFlag, contextFlag)
	if err != nil {
		return err
	}
	destination := firstNonEmpty(opts.destination, target.Destination, defaults.Destination)

	flags := make(map[wizard.Field]string)
	for f, v := range opts.values {
		if cmd.Flags().Changed(f.String()) {
			flags[f] = *v
		}
	}
	if id, ok := flags[wizard.FieldAlgorithm]; ok && !algo.Known(algo.ID(strings.TrimSpace(id))) {
		return fmt.Errorf("--algo: %w: %q (see 'minerconf algos')", algo.ErrUnknown, id)
	}

	var client *sdk.Client
	err = ui.Busy(ctx, "Connecting to "+target.Address, func(ctx context.Context) error {
		c, err := cmdutil.Connect(ctx, target)
		client = c
		return err
	})
	if err != nil {
		return err
	}
	defer client.Close()

	interactive := ui.IsInteractive()
	sc := newScreen(out)
	st, err := runWizard(wizard.NewSequencer(sc, destination), sc, &collector{
		flags:       flags,
		interactive: interactive,
		ask:         uiAsker{out: os.Stderr},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, summary(st, target))
	if !opts.yes {
		ok, err := ui.Confirm("Save this configuration and reload the miner?", "use --yes to skip")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, ui.InfoMsg("Nothing saved."))
			return nil
		}
	}

	progress := ui.NewProgress()
	runnerOpts := []apply.Option{apply.WithTracer(progress.Tracer("minerconf/setup"))}
	if !opts.noHistory {
		if store, err := sqlite.Open(defaults.HistoryPath()); err != nil {
			slog.Warn("commit history unavailable", "err", err)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, apply.WithHistory(store))
		}
	}

	res, err := apply.NewRunner(client, runnerOpts...).Run(ctx, apply.Request{
		State:      st,
		Reference:  cfg.HardwareReference(),
		SessionID:  uuid.NewString(),
		Controller: client.Target(),
	})
	progress.Close()
	report(out, res, err)
	if err != nil {
		return err
	}

	if opts.waitReconnect > 0 && res.Outcome.Reconnectable() {
		return waitReconnect(ctx, out, target, opts.waitReconnect)
	}
	return nil
}

func summary(st wizard.State, target cmdutil.Target) string {
	pairs := []ui.Pair{
		ui.KV("Controller", target.Address),
		ui.KV("Destination", st.Destination),
		ui.KV("Algorithm", string(st.Algo)),
	}
	if st.PoolDiffOverride != nil {
		pairs = append(pairs, ui.KV("Pool difficulty", strconv.Itoa(*st.PoolDiffOverride)))
	}
	pairs = append(pairs,
		ui.KV("Pool", st.PoolURL),
		ui.KV("Worker", st.WorkerLogin),
		ui.KV("Pool name", st.PoolName),
		ui.KV("Intensity", fmt.Sprintf("%g%% of reference", st.ScaledIntensity*100)),
	)
	return ui.KeyValues("  ", pairs...)
}

// report prints the run's findings and its outcome message.
func report(out io.Writer, res apply.Result, err error) {
	if d := res.Describe(); d != "" {
		fmt.Fprintln(out, ui.InfoMsg("%s", d))
	}
	switch {
	case errors.Is(err, hardware.ErrNoDevices):
		fmt.Fprintln(out, ui.ErrorMsg("No eligible devices found. Nothing was saved."))
		return
	case res.Outcome == commit.OutcomeRejected:
		fmt.Fprintln(out, ui.ErrorMsg("%s", res.Outcome.Message()))
		fmt.Fprintln(out, "  "+res.Outcome.Detail())
	case res.Outcome == commit.OutcomeRestartOpen:
		fmt.Fprintln(out, ui.SuccessMsg("%s", res.Outcome.Message()))
		fmt.Fprintln(out, "  "+res.Outcome.Detail())
	case res.Outcome != 0:
		fmt.Fprintln(out, ui.WarnMsg("%s", res.Outcome.Message()))
		fmt.Fprintln(out, "  "+res.Outcome.Detail())
	default:
		return
	}
	fmt.Fprintln(out, ui.Muted(apply.DoneMessage))
}

func waitReconnect(ctx context.Context, out io.Writer, target cmdutil.Target, limit time.Duration) error {
	// Give the controller a moment to go down before polling.
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}

	err := ui.Busy(ctx, "Waiting for the controller to come back", func(ctx context.Context) error {
		c, err := sdk.WaitReachable(ctx, target.Address, limit, target.DialOptions()...)
		if err != nil {
			return err
		}
		return c.Close()
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessMsg("Controller %s is back.", target.Address))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
