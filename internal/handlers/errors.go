package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// internalError logs err, reports it to Sentry and answers 500 with
// message; err never reaches the client.
func internalError(c *fiber.Ctx, message string, err error) error {
	slog.Error(message,
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
