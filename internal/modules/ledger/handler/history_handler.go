package handler

import (
	"bytes"
	"fmt"
	"time"

	"dompet/internal/export"
	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/internal/view"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type historyData struct {
	Items  any         `json:"items"`
	Totals view.Totals `json:"totals"`
}

// filterFrom builds the view filter from the query string. Relative date
// presets are anchored at the handler clock in the configured timezone.
func (h *LedgerHandler) filterFrom(c *fiber.Ctx) (view.Filter, dto.HistoryQuery, error) {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return view.Filter{}, q, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	typ, err := view.ParseTypeFilter(q.Type)
	if err != nil {
		return view.Filter{}, q, err
	}
	date, err := view.ParseDatePreset(q.Date)
	if err != nil {
		return view.Filter{}, q, err
	}

	f := view.Filter{
		Query:    q.Query,
		Type:     typ,
		WalletID: q.WalletID,
		Date:     date,
		Now:      h.now(),
		Location: h.opt.Location,
	}
	if date == view.DateCustom {
		if q.Custom == "" {
			return view.Filter{}, q, fmt.Errorf("%w: custom date is required", model.ErrValidation)
		}
		day, err := time.ParseInLocation(view.DayLayout, q.Custom, h.opt.Location)
		if err != nil {
			return view.Filter{}, q, fmt.Errorf("%w: custom date must be %s", model.ErrValidation, view.DayLayout)
		}
		f.Custom = day
	}
	return f, q, nil
}

// History returns the filtered entries newest first, paged either as a flat
// list or as day groups (?group=true).
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	f, q, err := h.filterFrom(c)
	if err != nil {
		return fail(c, "LedgerHandler.History", c.Queries(), err)
	}

	entries, _, err := h.usecase.Entries(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "LedgerHandler.History", c.Queries(), err)
	}
	filtered := view.Apply(entries, f)
	totals := view.Sum(filtered)

	if q.Group {
		page := view.Paginate(view.GroupByDate(filtered, h.opt.Location), q.Page, h.opt.PageSize)
		return response.WriteSuccessWithMeta(c, fiber.StatusOK, "History",
			historyData{Items: page.Items, Totals: totals}, response.NewMeta(page.Page, page.PageSize, page.Total))
	}
	page := view.Paginate(filtered, q.Page, h.opt.PageSize)
	return response.WriteSuccessWithMeta(c, fiber.StatusOK, "History",
		historyData{Items: page.Items, Totals: totals}, response.NewMeta(page.Page, page.PageSize, page.Total))
}

// Export downloads every entry matching the filter as an xlsx workbook.
func (h *LedgerHandler) Export(c *fiber.Ctx) error {
	f, _, err := h.filterFrom(c)
	if err != nil {
		return fail(c, "LedgerHandler.Export", c.Queries(), err)
	}
	entries, wallets, err := h.usecase.Entries(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "LedgerHandler.Export", c.Queries(), err)
	}

	var buf bytes.Buffer
	if err := export.WriteHistory(&buf, view.Apply(entries, f), wallets, h.opt.Location); err != nil {
		return fail(c, "LedgerHandler.Export", c.Queries(), err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.Export", c.Queries(), nil)
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename(h.now().In(h.opt.Location))))
	return c.Send(buf.Bytes())
}
