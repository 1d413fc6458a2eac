package handler

import (
	"dompet/internal/modules/ledger/dto"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

func (h *LedgerHandler) CreateWallet(c *fiber.Ctx) error {
	var req dto.CreateWalletInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "LedgerHandler.CreateWallet", err)
	}

	out, err := h.usecase.CreateWallet(c.UserContext(), userID(c), req)
	if err != nil {
		return fail(c, "LedgerHandler.CreateWallet", req, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.CreateWallet", req, nil)
	return response.WriteSuccess(c, fiber.StatusCreated, "Wallet created", out)
}

func (h *LedgerHandler) ListWallets(c *fiber.Ctx) error {
	out, err := h.usecase.ListWallets(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "LedgerHandler.ListWallets", nil, err)
	}
	return response.WriteSuccess(c, fiber.StatusOK, "Wallets", out)
}

func (h *LedgerHandler) ArchiveWallet(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.usecase.ArchiveWallet(c.UserContext(), userID(c), id); err != nil {
		return fail(c, "LedgerHandler.ArchiveWallet", fiber.Map{"id": id}, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.ArchiveWallet", fiber.Map{"id": id}, nil)
	return response.WriteSuccess(c, fiber.StatusOK, "Wallet archived", nil)
}
