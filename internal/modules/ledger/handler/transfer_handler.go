package handler

import (
	"dompet/internal/modules/ledger/dto"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

func (h *LedgerHandler) CreateTransfer(c *fiber.Ctx) error {
	var req dto.TransferInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "LedgerHandler.CreateTransfer", err)
	}

	out, err := h.usecase.CreateTransfer(c.UserContext(), userID(c), req)
	if err != nil {
		return fail(c, "LedgerHandler.CreateTransfer", req, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.CreateTransfer", req, nil)
	return response.WriteSuccess(c, fiber.StatusCreated, "Transfer created", out)
}

func (h *LedgerHandler) EditTransfer(c *fiber.Ctx) error {
	var req dto.TransferInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "LedgerHandler.EditTransfer", err)
	}

	id := c.Params("id")
	out, err := h.usecase.EditTransfer(c.UserContext(), userID(c), id, req)
	if err != nil {
		return fail(c, "LedgerHandler.EditTransfer", fiber.Map{"id": id, "body": req}, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.EditTransfer", fiber.Map{"id": id, "body": req}, nil)
	return response.WriteSuccess(c, fiber.StatusOK, "Transfer updated", out)
}

func (h *LedgerHandler) DeleteTransfer(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.usecase.DeleteTransfer(c.UserContext(), userID(c), id); err != nil {
		return fail(c, "LedgerHandler.DeleteTransfer", fiber.Map{"id": id}, err)
	}

	logger.WriteLogToFile("success", "LedgerHandler.DeleteTransfer", fiber.Map{"id": id}, nil)
	return response.WriteSuccess(c, fiber.StatusOK, "Transfer deleted", nil)
}
