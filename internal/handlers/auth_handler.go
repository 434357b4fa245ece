package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrWeakPassword) || errors.Is(err, services.ErrInvalidName) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to register", err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return unauthorized(c, err.Error())
		}
		return internalError(c, "Internal server error", err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return unauthorized(c, err.Error())
		}
		return internalError(c, "Internal server error", err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return internalError(c, "Failed to logout", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordRequired):
			return badRequest(c, "Password is required")
		case errors.Is(err, services.ErrInvalidCredentials):
			return unauthorized(c, "Incorrect password. Please try again.")
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return internalError(c, "Failed to delete account", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Account deleted successfully"})
}
