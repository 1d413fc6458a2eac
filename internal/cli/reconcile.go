package cli

import (
	"fmt"
	"text/tabwriter"

	"dompet/internal/infrastructure/db"
	"dompet/internal/infrastructure/repository"
	"dompet/internal/modules/ledger/usecase"
	"dompet/pkg/logger"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:          "reconcile",
	Short:        "Recompute wallet balances from entries and fix drift",
	RunE:         reconcileCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Bool("audit", false, "record the run in the audit database")
}

func reconcileCmdF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if withAudit, _ := cmd.Flags().GetBool("audit"); withAudit {
		dbWrite, err := db.ConnectDBWrite(e.cfg.DB)
		if err != nil {
			return fmt.Errorf("connect audit db: %w", err)
		}
		defer db.CloseDBWrite()
		if err := db.Migrate(dbWrite); err != nil {
			return fmt.Errorf("migrate audit db: %w", err)
		}
		e.usecase = usecase.NewLedgerUsecase(e.store, repository.NewAuditRepository(dbWrite, dbWrite))
	}

	run, err := e.usecase.Reconcile(ctx, e.userID)
	if err != nil {
		return err
	}
	logger.Infof("reconciled %d wallet(s), %d drifted, %d attempt(s)", run.Wallets, run.Drifted, run.Attempts)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WALLET\tSTORED\tCOMPUTED\tDRIFT")
	for _, it := range run.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.WalletID,
			FormatAmount(it.Stored.IntPart(), it.Currency),
			FormatAmount(it.Computed.IntPart(), it.Currency),
			it.Drift.String())
	}
	return tw.Flush()
}
