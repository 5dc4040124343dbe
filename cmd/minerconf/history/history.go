package historycmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"minerconf/cmd/minerconf/ui"
	"minerconf/infra/sqlite"
	"minerconf/pkg/sdk/defaults"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// Cmd returns "minerconf history".
func Cmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List configurations committed to controllers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, ok, err := open()
			if err != nil || !ok {
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), ui.InfoMsg("No commits recorded."))
				}
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.InfoMsg("No commits recorded."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Table(
				[]string{"ID", "WHEN", "CONTROLLER", "DESTINATION", "ALGO", "INTENSITY", "OUTCOME"},
				rows(records, time.Now()),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many commits (0 for all)")
	cmd.AddCommand(showCmd())
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded commit and the configuration it sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid commit id %q", args[0])
			}
			store, ok, err := open()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", sqlite.ErrNotFound, id)
			}
			defer store.Close()

			r, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return show(cmd.OutOrStdout(), r)
		},
	}
}

// open opens the history store. ok is false when nothing was ever recorded.
func open() (*sqlite.HistoryStore, bool, error) {
	path := defaults.HistoryPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat history: %w", err)
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, false, err
	}
	return store, true, nil
}

func rows(records []sqlite.Record, now time.Time) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, []string{
			strconv.FormatInt(r.ID, 10),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			r.Controller,
			r.Destination,
			r.Algo,
			strconv.Itoa(r.LinearIntensity),
			outcome(r),
		})
	}
	return out
}

func outcome(r sqlite.Record) string {
	switch r.Outcome {
	case "restart_open", "restart_closed", "closed_no_reply":
		return ui.Success(r.Outcome)
	default:
		return ui.Warn(r.Outcome)
	}
}

func show(out io.Writer, r sqlite.Record) error {
	pairs := []ui.Pair{
		ui.KV("Session", r.SessionID),
		ui.KV("When", r.CreatedAt.Local().Format(time.RFC1123)),
		ui.KV("Controller", r.Controller),
		ui.KV("Destination", r.Destination),
		ui.KV("Algorithm", r.Algo),
		ui.KV("Intensity", strconv.Itoa(r.LinearIntensity)),
		ui.KV("Outcome", r.Outcome),
	}
	if r.Error != "" {
		pairs = append(pairs, ui.KV("Error", r.Error))
	}
	fmt.Fprint(out, ui.KeyValues("", pairs...))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, r.Configuration, "", "  "); err != nil {
		return fmt.Errorf("format configuration: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, pretty.String())
	return nil
}
