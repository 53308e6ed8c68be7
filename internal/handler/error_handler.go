package handler

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/safecircleafrica-cyber/Safecircle/internal/config"
	"github.com/safecircleafrica-cyber/Safecircle/internal/models"
)

// NewErrorHandler maps the two application error kinds onto HTTP statuses:
// ValidationError is always 400, ProcessorError is always 500. Anything
// else falls through to a generic 500, with a stack trace attached only
// outside production.
func NewErrorHandler(cfg *config.Config, logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			resp := fiber.Map{
				"success": false,
				"error":   validationErr.Message,
			}
			if validationErr.Required != nil {
				resp["required"] = validationErr.Required
				resp["received"] = validationErr.Received
			} else if validationErr.Received != nil {
				resp["received"] = validationErr.Received
			}
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}

		var processorErr *models.ProcessorError
		if errors.As(err, &processorErr) {
			logger.Error("payment processor error",
				zap.String("path", c.Path()),
				zap.String("type", processorErr.Type),
				zap.String("code", processorErr.Code),
				zap.Error(processorErr),
			)
			resp := fiber.Map{
				"success": false,
				"error":   processorErr.Message,
			}
			if processorErr.Type != "" {
				resp["type"] = processorErr.Type
			}
			if processorErr.Code != "" {
				resp["code"] = processorErr.Code
			}
			return c.Status(fiber.StatusInternalServerError).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(models.ErrorResponse(fiberErr.Message))
		}

		logger.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		resp := fiber.Map{
			"success": false,
			"error":   "internal server error",
		}
		if !cfg.IsProduction() {
			resp["detail"] = err.Error()
			resp["stack"] = string(debug.Stack())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}
