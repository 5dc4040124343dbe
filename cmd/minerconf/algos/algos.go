package algoscmd

import (
	"fmt"
	"strconv"

	"minerconf/cmd/minerconf/ui"
	"minerconf/internal/algo"

	"github.com/spf13/cobra"
)

// Cmd returns "minerconf algos".
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algos",
		Short: "List the algorithms the wizard can configure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Table(
				[]string{"ALGORITHM", "STRATUM", "ONE", "SHARE", "DIFF MODE", "IMPL"},
				rows(algo.All()),
			))
			return nil
		},
	}
}

func rows(infos []algo.Info) [][]string {
	out := make([][]string, 0, len(infos))
	for _, info := range infos {
		mode := string(info.DiffMode)
		if mode == "" {
			mode = "-"
		}
		out = append(out, []string{
			string(info.ID),
			strconv.Itoa(info.Profile.Stratum),
			strconv.Itoa(info.Profile.One),
			strconv.Itoa(info.Profile.Share),
			mode,
			info.Impl,
		})
	}
	return out
}
