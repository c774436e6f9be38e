package handler

import (
	"errors"

	"go-bookstore-backoffice/internal/service"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var ErrUnknownCommand = errors.New("unknown command")

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

// fail logs the failure once under the operation name and writes the generic error envelope.
func fail(c *fiber.Ctx, log *logger.Logger, op string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrUnknownCommand):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		log.Error("operation failed", "op", op, "error", err)
	} else {
		log.Warn("operation rejected", "op", op, "status", status, "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   "operation failed",
		"message": err.Error(),
	})
}
