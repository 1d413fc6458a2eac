package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"dompet/internal/model"
	"dompet/internal/view"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "Print filtered entry history grouped by day",
	RunE:         historyCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(historyCmd)
	addFilterFlags(historyCmd)
	historyCmd.Flags().Int("page", 1, "page of day groups")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("q", "", "description contains")
	cmd.Flags().String("type", "all", "all|income|outcome|transfer")
	cmd.Flags().String("wallet", "", "wallet id")
	cmd.Flags().String("date", "all", "all|today|yesterday|last7|thisMonth|custom")
	cmd.Flags().String("custom", "", "day for --date custom (YYYY-MM-DD)")
}

func filterFromFlags(cmd *cobra.Command, loc *time.Location) (view.Filter, error) {
	q, _ := cmd.Flags().GetString("q")
	typ, _ := cmd.Flags().GetString("type")
	wallet, _ := cmd.Flags().GetString("wallet")
	date, _ := cmd.Flags().GetString("date")
	custom, _ := cmd.Flags().GetString("custom")

	t, err := view.ParseTypeFilter(typ)
	if err != nil {
		return view.Filter{}, err
	}
	d, err := view.ParseDatePreset(date)
	if err != nil {
		return view.Filter{}, err
	}
	f := view.Filter{Query: q, Type: t, WalletID: wallet, Date: d, Now: time.Now(), Location: loc}
	if d == view.DateCustom {
		day, err := time.ParseInLocation(view.DayLayout, custom, loc)
		if err != nil {
			return view.Filter{}, fmt.Errorf("--custom: %w", err)
		}
		f.Custom = day
	}
	return f, nil
}

func historyCmdF(cmd *cobra.Command, args []string) error {
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
	entries, _, err := e.usecase.Entries(ctx, e.userID)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	groups := view.Paginate(view.FilterAndGroup(entries, f), page, e.cfg.Ledger.PageSize)
	if err := printGroups(cmd.OutOrStdout(), groups.Items, loc); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d days)\n", groups.Page, groups.TotalPages, groups.Total)
	return err
}

func printGroups(w io.Writer, groups []view.DateGroup, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "== %s\n", g.Date)
		for _, e := range g.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				e.CreatedAt().In(loc).Format("15:04"), e.Kind, describe(e),
				FormatAmount(e.Amount(), e.Currency()))
		}
	}
	return tw.Flush()
}

func describe(e model.Entry) string {
	switch e.Kind {
	case model.KindIncome, model.KindOutcome:
		return e.Ledger.Description
	case model.KindTransfer:
		return fmt.Sprintf("%s (%s -> %s)", e.Transfer.Description, e.Transfer.FromName, e.Transfer.ToName)
	}
	panic(fmt.Sprintf("cli: unknown entry kind %q", string(e.Kind)))
}
