package handler

import (
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	uid := userID(c)
	run, err := h.usecase.Reconcile(c.UserContext(), uid)
	if err != nil {
		return fail(c, "LedgerHandler.Reconcile", fiber.Map{"user_id": uid}, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.Reconcile", fiber.Map{
		"user_id": uid,
		"wallets": run.Wallets,
		"drifted": run.Drifted,
	}, nil)
	return response.WriteSuccess(c, fiber.StatusOK, "Balances reconciled", run)
}

func (h *LedgerHandler) ListReconciliations(c *fiber.Ctx) error {
	runs, err := h.audit.ListReconciliations(c.UserContext(), userID(c), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, "LedgerHandler.ListReconciliations", nil, err)
	}
	return response.WriteSuccess(c, fiber.StatusOK, "Reconciliation runs", runs)
}

func (h *LedgerHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.audit.ListEvents(c.UserContext(), userID(c), c.QueryInt("limit", 50))
	if err != nil {
		return fail(c, "LedgerHandler.ListEvents", nil, err)
	}
	return response.WriteSuccess(c, fiber.StatusOK, "Ledger events", events)
}
