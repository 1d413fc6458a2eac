package usecase

import (
	"context"

	"dompet/internal/model"
	"dompet/internal/store"
	"dompet/pkg/logger"

	"github.com/shopspring/decimal"
)

// ComputeBalances derives every wallet balance from the entries alone:
// incomes minus outcomes plus transfers in minus transfers out.
func ComputeBalances(l store.Ledger) map[string]int64 {
	out := make(map[string]int64, len(l.Wallets))
	for _, w := range l.Wallets {
		out[w.ID] = 0
	}
	for _, e := range l.Incomes {
		out[e.WalletID] += e.Amount
	}
	for _, e := range l.Outcomes {
		out[e.WalletID] -= e.Amount
	}
	for _, t := range l.Transfers {
		out[t.FromWalletID] -= t.Amount
		out[t.ToWalletID] += t.Amount
	}
	return out
}

// Reconcile overwrites every drifted wallet balance with the value derived
// from its entries. Wallets already in agreement are left untouched, so a
// second run reports no drift. The write is retried while concurrent ledger
// writes keep landing and fails with model.ErrConflict when they never stop.
func (u *LedgerUsecase) Reconcile(ctx context.Context, userID string) (model.ReconciliationRun, error) {
	run := model.ReconciliationRun{UserID: userID, StartedAt: u.now().UTC()}

	attempts, err := u.store.ApplyBalances(ctx, userID, func(l store.Ledger) (map[string]int64, error) {
		computed := ComputeBalances(l)
		run.Items = run.Items[:0]
		run.Drifted = 0
		targets := make(map[string]int64)
		for _, w := range l.Wallets {
			c := computed[w.ID]
			run.Items = append(run.Items, model.ReconciliationItem{
				WalletID: w.ID,
				Currency: w.Currency,
				Stored:   decimal.NewFromInt(w.Balance),
				Computed: decimal.NewFromInt(c),
				Drift:    decimal.NewFromInt(w.Balance - c),
			})
			if c != w.Balance {
				targets[w.ID] = c
				run.Drifted++
			}
		}
		run.Wallets = len(l.Wallets)
		return targets, nil
	})
	run.Attempts = attempts
	run.FinishedAt = u.now().UTC()
	if err != nil {
		return run, wrap("reconcile", err)
	}

	if run.Drifted > 0 {
		logger.WithUser(userID).Warnf("reconcile fixed %d/%d wallets in %d attempt(s)", run.Drifted, run.Wallets, attempts)
	}
	if u.audit != nil {
		if err := u.audit.RecordReconciliation(ctx, &run); err != nil {
			// saldo sudah benar, audit gagal cukup dicatat
			logger.WithUser(userID).Errorf("record reconciliation: %v", err)
		}
	}
	return run, nil
}
