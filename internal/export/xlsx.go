// Package export writes entry history as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"dompet/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "History"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Date", "Type", "Wallet", "To Wallet", "Description", "Amount", "Currency", "Edits"}

// Filename is the attachment name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("history_%s.xlsx", now.Format("20060102"))
}

// WriteHistory writes one row per entry, in the given order. Amounts are
// minor units. Wallet names are resolved from wallets; transfers use the
// names captured when they were written.
func WriteHistory(w io.Writer, entries []model.Entry, wallets []model.Wallet, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	names := make(map[string]string, len(wallets))
	for _, wl := range wallets {
		names[wl.ID] = wl.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := entryRow(e, names, loc)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for col, width := range map[string]float64{"A": 18, "B": 10, "C": 18, "D": 18, "E": 36, "F": 16, "G": 10, "H": 8} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func entryRow(e model.Entry, names map[string]string, loc *time.Location) []any {
	created := e.CreatedAt().In(loc).Format("2006-01-02 15:04")
	switch e.Kind {
	case model.KindIncome, model.KindOutcome:
		l := e.Ledger
		return []any{created, string(e.Kind), names[l.WalletID], "", l.Description, l.Amount, l.Currency, len(l.EditHistory)}
	case model.KindTransfer:
		t := e.Transfer
		return []any{created, string(e.Kind), t.FromName, t.ToName, t.Description, t.Amount, t.Currency, 0}
	}
	panic(fmt.Sprintf("export: unknown entry kind %q", string(e.Kind)))
}
