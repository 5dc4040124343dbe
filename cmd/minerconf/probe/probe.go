package probecmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"minerconf/cmd/minerconf/cmdutil"
	"minerconf/cmd/minerconf/ui"
	"minerconf/config"
	"minerconf/internal/hardware"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// Cmd returns "minerconf probe".
func Cmd(addressFlag, contextFlag *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "List the controller's compute devices and how they compare to the reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			target, err := cmdutil.Resolve(cfg, *addressFlag, *contextFlag)
			if err != nil {
				return err
			}

			var snap hardware.Snapshot
			err = ui.Busy(cmd.Context(), "Probing "+target.Address, func(ctx context.Context) error {
				client, err := cmdutil.Connect(ctx, target)
				if err != nil {
					return err
				}
				defer client.Close()
				snap, err = hardware.NewProber(client, nil).Snapshot(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), snap, cfg.HardwareReference(), all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include devices that cannot mine")
	return cmd
}

type row struct {
	platform string
	device   hardware.Device
	eligible bool
	slowest  bool
}

// classify marks eligible devices and the slowest of them, in snapshot
// order. slowest is -1 when nothing is eligible.
func classify(snap hardware.Snapshot) (rows []row, slowest int) {
	var eligible []hardware.Device
	var at []int
	for _, p := range snap.Platforms {
		for _, d := range p.Devices {
			ok := hardware.GPUOnly(p, d)
			if ok {
				eligible = append(eligible, d)
				at = append(at, len(rows))
			}
			rows = append(rows, row{platform: p.Name, device: d, eligible: ok})
		}
	}
	i, err := hardware.Slowest(eligible)
	if err != nil {
		return rows, -1
	}
	rows[at[i]].slowest = true
	return rows, at[i]
}

func render(out io.Writer, snap hardware.Snapshot, ref hardware.Reference, all bool) error {
	rows, slowest := classify(snap)

	var table [][]string
	highlight := -1
	for _, r := range rows {
		if !r.eligible && !all {
			continue
		}
		mark := ""
		switch {
		case r.slowest:
			mark = "slowest"
			highlight = len(table)
		case !r.eligible:
			mark = ui.Muted("skipped")
		}
		mem := "-"
		if r.device.GlobalMemBytes > 0 {
			mem = humanize.IBytes(r.device.GlobalMemBytes)
		}
		table = append(table, []string{
			mark,
			r.platform,
			r.device.Type,
			r.device.Chip,
			strconv.FormatInt(r.device.CoreClock, 10) + " MHz",
			strconv.FormatInt(r.device.Clusters, 10),
			mem,
			humanize.Comma(r.device.EstimatedThroughput()),
		})
	}
	if len(table) > 0 {
		fmt.Fprintln(out, ui.HighlightTable([]string{"", "PLATFORM", "TYPE", "CHIP", "CLOCK", "CLUSTERS", "MEMORY", "THROUGHPUT"}, table, highlight))
	}

	if slowest < 0 {
		return hardware.ErrNoDevices
	}
	d := rows[slowest].device
	scaling := hardware.Scale(ref, d.EstimatedThroughput(), 1)
	fmt.Fprintln(out, ui.InfoMsg("Slowest device (%s) is %s.", d.Chip, hardware.DescribeRatio(scaling.Ratio)))
	fmt.Fprint(out, ui.KeyValues("  ",
		ui.KV("Reference", fmt.Sprintf("%d MHz × %d clusters (%s)", ref.CoreClock, ref.Clusters, humanize.Comma(ref.Throughput()))),
		ui.KV("Full intensity", strconv.Itoa(scaling.LinearIntensity)),
	))
	return nil
}
