package handler

import (
	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CreateEntry returns the create handler of one entry kind (income/outcome).
func (h *LedgerHandler) CreateEntry(kind model.Kind) fiber.Handler {
	source := "LedgerHandler.Create." + string(kind)
	return func(c *fiber.Ctx) error {
		var req dto.LedgerEntryInput
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, source, err)
		}

		out, err := h.usecase.CreateEntry(c.UserContext(), userID(c), kind, req)
		if err != nil {
			return fail(c, source, req, err)
		}

		logger.WriteLogToFile("success", source, req, nil)
		return response.WriteSuccess(c, fiber.StatusCreated, "Entry created", out)
	}
}

func (h *LedgerHandler) EditEntry(kind model.Kind) fiber.Handler {
	source := "LedgerHandler.Edit." + string(kind)
	return func(c *fiber.Ctx) error {
		var req dto.EditLedgerEntryInput
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, source, err)
		}

		out, err := h.usecase.EditEntry(c.UserContext(), userID(c), kind, c.Params("id"), req)
		if err != nil {
			return fail(c, source, fiber.Map{"id": c.Params("id"), "body": req}, err)
		}

		logger.WriteLogToFile("success", source, fiber.Map{"id": c.Params("id"), "body": req}, nil)
		return response.WriteSuccess(c, fiber.StatusOK, "Entry updated", out)
	}
}

func (h *LedgerHandler) DeleteEntry(kind model.Kind) fiber.Handler {
	source := "LedgerHandler.Delete." + string(kind)
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := h.usecase.DeleteEntry(c.UserContext(), userID(c), kind, id); err != nil {
			return fail(c, source, fiber.Map{"id": id}, err)
		}

		logger.WriteLogToFile("success", source, fiber.Map{"id": id}, nil)
		return response.WriteSuccess(c, fiber.StatusOK, "Entry deleted", nil)
	}
}
