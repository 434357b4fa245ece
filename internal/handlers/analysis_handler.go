package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	service *services.AnalysisService
}

func NewAnalysisHandler(service *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze answers 503 with the fallback text when the model cannot be
// reached, so clients can still show something.
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	text, err := h.service.Analyze(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.AnalysisResponse{Analysis: text})
		}
		return internalError(c, "Failed to analyze moods", err)
	}

	return c.JSON(dto.AnalysisResponse{Analysis: text})
}
