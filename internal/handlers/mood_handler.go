package handlers

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultEntryDays   = 7
	defaultInsightDays = 30
	defaultDailyDays   = 7
	defaultPeriod      = insights.GranularityWeek
)

type MoodHandler struct {
	service *services.MoodService
}

func NewMoodHandler(service *services.MoodService) *MoodHandler {
	return &MoodHandler{service: service}
}

func (h *MoodHandler) Save(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.SaveMoodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, created, err := h.service.SaveMood(c.UserContext(), userID, req)
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to save mood", err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(entry)
}

func (h *MoodHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	days, err := parseDays(c, defaultEntryDays)
	if err != nil {
		return badRequest(c, err.Error())
	}

	entries, err := h.service.Entries(c.UserContext(), userID, days)
	if err != nil {
		return h.fail(c, "Failed to fetch moods", err)
	}

	return c.JSON(dto.MoodListResponse{Entries: entries, Days: days, Total: len(entries)})
}

func (h *MoodHandler) Today(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	entry, err := h.service.Today(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoEntryToday) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to fetch today's mood", err)
	}

	return c.JSON(entry)
}

func (h *MoodHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	entries, err := h.service.History(c.UserContext(), userID)
	if err != nil {
		return internalError(c, "Failed to fetch moods", err)
	}

	return c.JSON(dto.MoodListResponse{Entries: entries, Total: len(entries)})
}

func (h *MoodHandler) Insights(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	days, err := parseDays(c, defaultInsightDays)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.Insights(c.UserContext(), userID, days)
	if err != nil {
		return h.fail(c, "Failed to compute insights", err)
	}

	return c.JSON(result)
}

func (h *MoodHandler) Distribution(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	days, err := parseDays(c, defaultInsightDays)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.Distribution(c.UserContext(), userID, days)
	if err != nil {
		return h.fail(c, "Failed to compute distribution", err)
	}

	return c.JSON(result)
}

func (h *MoodHandler) Daily(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	days, err := parseDays(c, defaultDailyDays)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.Daily(c.UserContext(), userID, days)
	if err != nil {
		return h.fail(c, "Failed to compute daily averages", err)
	}

	return c.JSON(result)
}

func (h *MoodHandler) Comparison(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	period, err := parsePeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.Comparison(c.UserContext(), userID, period)
	if err != nil {
		return internalError(c, "Failed to compare periods", err)
	}

	return c.JSON(result)
}

func (h *MoodHandler) Report(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	period, err := parsePeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.service.Report(c.UserContext(), userID, period)
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}

	return c.JSON(report)
}

// parseDays reads the days query parameter. Range checks happen in the
// service.
func parseDays(c *fiber.Ctx, fallback int) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return fallback, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ErrInvalidDays
	}
	return days, nil
}

func (h *MoodHandler) fail(c *fiber.Ctx, message string, err error) error {
	if errors.Is(err, services.ErrInvalidDays) {
		return badRequest(c, err.Error())
	}
	return internalError(c, message, err)
}

func parsePeriod(c *fiber.Ctx) (insights.Granularity, error) {
	raw := c.Query("period")
	if raw == "" {
		return defaultPeriod, nil
	}
	return insights.ParseGranularity(raw)
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrInvalidMood) ||
		errors.Is(err, services.ErrInvalidEmoji) ||
		errors.Is(err, services.ErrNoteTooLong) ||
		errors.Is(err, insights.ErrValueOutOfRange) ||
		errors.Is(err, insights.ErrMissingTimestamp)
}
