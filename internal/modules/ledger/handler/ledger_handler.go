package handler

import (
	"context"
	"errors"
	"time"

	"dompet/internal/live"
	"dompet/internal/middleware"
	"dompet/internal/model"
	"dompet/internal/modules/ledger/usecase"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditReader lists what the reconcile runs and the journal worker recorded.
type AuditReader interface {
	ListReconciliations(ctx context.Context, userID string, limit int) ([]model.ReconciliationRun, error)
	ListEvents(ctx context.Context, userID string, limit int) ([]model.LedgerEvent, error)
}

type Options struct {
	// Context bounds long-lived responses (the live feed). Cancel it before
	// shutting the server down, otherwise open streams keep it waiting.
	Context   context.Context
	PageSize  int
	Location  *time.Location
	KeepAlive time.Duration // SSE comment interval
}

type LedgerHandler struct {
	usecase    *usecase.LedgerUsecase
	aggregator *live.Aggregator
	audit      AuditReader
	opt        Options
	now        func() time.Time
}

func NewLedgerHandler(u *usecase.LedgerUsecase, agg *live.Aggregator, audit AuditReader, opt Options) *LedgerHandler {
	if opt.PageSize <= 0 {
		opt.PageSize = 10
	}
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	if opt.Context == nil {
		opt.Context = context.Background()
	}
	if opt.KeepAlive <= 0 {
		opt.KeepAlive = 15 * time.Second
	}
	return &LedgerHandler{usecase: u, aggregator: agg, audit: audit, opt: opt, now: time.Now}
}

// statusFor maps a ledger error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return fiber.StatusBadRequest, "Validation error"
	case errors.Is(err, model.ErrWalletNotFound), errors.Is(err, model.ErrEntryNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, model.ErrStaleReference):
		return fiber.StatusConflict, "Data changed, reload and try again"
	case errors.Is(err, model.ErrWalletNotEmpty):
		return fiber.StatusConflict, "Wallet balance must be zero"
	case errors.Is(err, model.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity, "Insufficient balance"
	}
	return fiber.StatusInternalServerError, "Failed to save, try again"
}

// fail logs err under source and writes the mapped error response.
func fail(c *fiber.Ctx, source string, payload any, err error) error {
	errMsg := err.Error()
	logger.WriteLogToFile("failed", source, payload, &errMsg)
	code, msg := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.Errorf("%s: %v", source, err)
	}
	return response.WriteError(c, code, msg, errMsg)
}

func badBody(c *fiber.Ctx, source string, err error) error {
	errMsg := err.Error()
	logger.WriteLogToFile("failed", source+".Parser", nil, &errMsg)
	return response.WriteError(c, fiber.StatusBadRequest, "Invalid request body", errMsg)
}

func userID(c *fiber.Ctx) string { return middleware.UserID(c) }
