package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.Profile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to fetch profile", err)
	}

	return c.JSON(user)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to update profile", err)
	}

	return c.JSON(user)
}
