package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"dompet/internal/live"
	"dompet/internal/view"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:          "watch",
	Short:        "Follow a user's ledger live and print totals on every change",
	RunE:         watchCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func watchCmdF(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	sub := live.NewAggregator(e.store).Subscribe(ctx, e.userID)
	defer sub.Close()

	loc := e.cfg.Ledger.Location()
	for entries := range sub.Updates() {
		sorted := view.Apply(entries, view.Filter{Location: loc})
		t := view.Sum(sorted)
		latest := "-"
		if len(sorted) > 0 {
			latest = describe(sorted[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries  income=%d outcome=%d transfer=%d  latest: %s\n",
			len(sorted), t.Income, t.Outcome, t.Transfer, latest)
	}
	return sub.Err()
}
