package cli

import (
	"fmt"
	"os"
	"time"

	"dompet/internal/export"
	"dompet/internal/view"
	"dompet/pkg/logger"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:          "export",
	Short:        "Write filtered history to an xlsx file",
	RunE:         exportCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "output file (default history_<date>.xlsx)")
}

func exportCmdF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	loc := e.cfg.Ledger.Location()
	f, err := filterFromFlags(cmd, loc)
	if err != nil {
		return err
	}
	entries, wallets, err := e.usecase.Entries(ctx, e.userID)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = export.Filename(time.Now().In(loc))
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	filtered := view.Apply(entries, f)
	if err := export.WriteHistory(file, filtered, wallets, loc); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	logger.Infof("exported %d entries to %s", len(filtered), out)
	return nil
}
