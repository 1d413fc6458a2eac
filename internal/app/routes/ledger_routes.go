package routes

import (
	"dompet/internal/model"
	"dompet/internal/modules/ledger/handler"

	"github.com/gofiber/fiber/v2"
)

func NewLedgerRoutes(router fiber.Router, h *handler.LedgerHandler) {
	wallets := router.Group("/wallets")
	wallets.Post("/", h.CreateWallet)
	wallets.Get("/", h.ListWallets)
	wallets.Post("/:id/archive", h.ArchiveWallet)

	for _, kind := range []model.Kind{model.KindIncome, model.KindOutcome} {
		entries := router.Group("/" + kind.Collection())
		entries.Post("/", h.CreateEntry(kind))
		entries.Put("/:id", h.EditEntry(kind))
		entries.Delete("/:id", h.DeleteEntry(kind))
	}

	transfers := router.Group("/transfers")
	transfers.Post("/", h.CreateTransfer)
	transfers.Put("/:id", h.EditTransfer)
	transfers.Delete("/:id", h.DeleteTransfer)

	router.Get("/history", h.History)
	router.Get("/history/export", h.Export)
	router.Get("/live", h.Live)

	router.Post("/reconcile", h.Reconcile)
	router.Get("/reconcile", h.ListReconciliations)
	router.Get("/events", h.ListEvents)
}
